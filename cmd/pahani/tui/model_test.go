package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pahani/internal/api"
	"pahani/internal/config"
)

// fakeBackend serves canned data and records mutating calls.
type fakeBackend struct {
	mu sync.Mutex

	districts []string
	mandals   []string
	villages  []string
	requests  []api.Request

	submitErr  error
	confirmErr error
	receipt    api.PaymentReceipt

	submitCalls  []api.SubmitRequest
	confirmCalls []api.ConfirmPayment
}

func (f *fakeBackend) Districts(ctx context.Context) ([]string, error) {
	return f.districts, nil
}

func (f *fakeBackend) Mandals(ctx context.Context, district string) ([]string, error) {
	return f.mandals, nil
}

func (f *fakeBackend) Villages(ctx context.Context, district, mandal string) ([]string, error) {
	return f.villages, nil
}

func (f *fakeBackend) MyRequests(ctx context.Context) ([]api.Request, error) {
	return f.requests, nil
}

func (f *fakeBackend) PaymentStatus(ctx context.Context, id int64) (api.PaymentStatusInfo, error) {
	return api.PaymentStatusInfo{}, nil
}

func (f *fakeBackend) RequestStatus(ctx context.Context, id int64) (api.RequestStatus, error) {
	return api.RequestStatus{Message: "ok"}, nil
}

func (f *fakeBackend) Submit(ctx context.Context, req api.SubmitRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls = append(f.submitCalls, req)
	return f.submitErr
}

func (f *fakeBackend) ConfirmPayment(ctx context.Context, requestID int64, transactionID string) (api.PaymentReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmCalls = append(f.confirmCalls, api.ConfirmPayment{RequestID: requestID, TransactionID: transactionID})
	if f.confirmErr != nil {
		return api.PaymentReceipt{}, f.confirmErr
	}
	return f.receipt, nil
}

func (f *fakeBackend) DownloadPDF(ctx context.Context, id int64, dir string) (string, error) {
	return "pahani-document-1.pdf", nil
}

func newTestModel(backend *fakeBackend) Model {
	m := New(backend, config.Config{}, nil)
	m.ready = true
	m.width = 80
	m.height = 24
	return m
}

// collectMsgs executes a command tree synchronously, flattening batches.
func collectMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collectMsgs(t, c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestStaleCascadeResponseIsDropped(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.locSeq = 2

	updated, _ := m.Update(mandalsLoadedMsg{seq: 1, options: []string{"Old"}})
	m = updated.(Model)
	assert.Nil(t, m.mandals, "stale mandal response must be discarded")

	updated, _ = m.Update(mandalsLoadedMsg{seq: 2, options: []string{"New"}})
	m = updated.(Model)
	assert.Equal(t, []string{"New"}, m.mandals)

	updated, _ = m.Update(villagesLoadedMsg{seq: 1, options: []string{"Stale"}})
	m = updated.(Model)
	assert.Nil(t, m.villages)
}

func TestDistrictSelectionResetsChildren(t *testing.T) {
	backend := &fakeBackend{mandals: []string{"Marpalle"}}
	m := newTestModel(backend)
	m.district = "Vikarabad"
	m.mandal = "Marpalle"
	m.village = "X"
	m.mandals = []string{"Marpalle"}
	m.villages = []string{"X", "Y"}
	m.pickerFor = fieldDistrict
	m.prevView = FormView
	m.viewMode = PickerView

	seqBefore := m.locSeq
	updated, cmd := m.applyPick("Rangareddy")
	m = updated.(Model)

	assert.Equal(t, "Rangareddy", m.district)
	assert.Empty(t, m.mandal)
	assert.Empty(t, m.village)
	assert.Nil(t, m.mandals)
	assert.Nil(t, m.villages)
	assert.Equal(t, seqBefore+1, m.locSeq)
	assert.Equal(t, FormView, m.viewMode)

	// The dispatched lookup carries the fresh token.
	msgs := collectMsgs(t, cmd)
	require.Len(t, msgs, 1)
	loaded, ok := msgs[0].(mandalsLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, m.locSeq, loaded.seq)
}

func TestMandalSelectionResetsVillage(t *testing.T) {
	m := newTestModel(&fakeBackend{villages: []string{"Z"}})
	m.district = "Vikarabad"
	m.village = "X"
	m.villages = []string{"X"}
	m.pickerFor = fieldMandal
	m.prevView = FormView
	m.viewMode = PickerView

	updated, cmd := m.applyPick("Dharur")
	m = updated.(Model)

	assert.Equal(t, "Dharur", m.mandal)
	assert.Empty(t, m.village)
	assert.Nil(t, m.villages)
	require.NotNil(t, cmd)
}

func TestFromYearInvalidatesEarlierToYear(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.fromYear = 1995
	m.toYear = 1998
	m.pickerFor = fieldFromYear
	m.prevView = FormView
	m.viewMode = PickerView

	updated, _ := m.applyPick("2000")
	m = updated.(Model)
	assert.Equal(t, 2000, m.fromYear)
	assert.Zero(t, m.toYear, "to-year below the new from-year must be cleared")

	// A to-year still >= from-year survives.
	m.toYear = 2005
	m.pickerFor = fieldFromYear
	m.viewMode = PickerView
	updated, _ = m.applyPick("2001")
	m = updated.(Model)
	assert.Equal(t, 2005, m.toYear)
}

func TestSubmitSuccessResetsFormAndRefetches(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.district = "Vikarabad"
	m.mandal = "Marpalle"
	m.village = "X"
	m.fromYear = 1995
	m.toYear = 1998
	m.survey.SetValue("45/B")
	m.submitting = true

	updated, cmd := m.Update(submitFinishedMsg{refID: "ABC123XYZ"})
	m = updated.(Model)

	assert.Equal(t, statusSuccess, m.submitState)
	assert.Equal(t, "ABC123XYZ", m.submitRefID)
	assert.False(t, m.submitting)
	assert.Empty(t, m.district)
	assert.Empty(t, m.mandal)
	assert.Empty(t, m.village)
	assert.Zero(t, m.fromYear)
	assert.Zero(t, m.toYear)
	assert.Empty(t, m.survey.Value())
	assert.True(t, m.loadingRequests)
	assert.NotNil(t, cmd, "the request list must be re-fetched")
}

func TestSubmitFailureKeepsFields(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.district = "Vikarabad"
	m.mandal = "Marpalle"
	m.village = "X"
	m.survey.SetValue("45/B")
	m.submitting = true

	updated, _ := m.Update(submitFinishedMsg{err: errors.New("boom")})
	m = updated.(Model)

	assert.Equal(t, statusError, m.submitState)
	assert.Equal(t, "Vikarabad", m.district)
	assert.Equal(t, "45/B", m.survey.Value())
}

func TestSubmitUnauthorizedSetsDistinctStatus(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.submitting = true

	updated, _ := m.Update(submitFinishedMsg{err: &api.Error{Status: 401, Detail: "expired"}})
	m = updated.(Model)
	assert.Equal(t, statusUnauthorized, m.submitState)
}

func TestRequestsLoadedPublishesList(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.loadingRequests = true

	reqs := []api.Request{
		{ID: 1, Processed: true},
		{ID: 2},
	}
	updated, _ := m.Update(requestsLoadedMsg{requests: reqs})
	m = updated.(Model)

	assert.False(t, m.loadingRequests)
	assert.Equal(t, reqs, m.userRequests)
}

func TestDownloadMarkerClearedOnFailure(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.downloadingID = 5

	updated, _ := m.Update(downloadFinishedMsg{id: 5, err: &api.Error{Status: 403}})
	m = updated.(Model)

	assert.Zero(t, m.downloadingID)
	assert.Equal(t, "Please complete payment to access the document.", m.statusLine)
}

func TestDownloadNotOfferedWithoutPDF(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.viewMode = RequestsView
	m.userRequests = []api.Request{{ID: 1, Processed: true, IsPaid: true, PDFS3URL: ""}}
	m.selected = 0

	updated, cmd := m.Update(keyRune('d'))
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Zero(t, m.downloadingID)
	assert.Equal(t, "PDF being prepared.", m.statusLine)
}

func TestDuplicateDownloadIgnored(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.viewMode = RequestsView
	m.userRequests = []api.Request{{ID: 1, Processed: true, IsPaid: true, PDFS3URL: "s3://x"}}
	m.selected = 0
	m.downloadingID = 1

	_, cmd := m.Update(keyRune('d'))
	assert.Nil(t, cmd)
}

func TestPaymentIneligibleRequestDoesNotOpenModal(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.viewMode = RequestsView
	m.userRequests = []api.Request{
		{ID: 1, Processed: true, PaymentStatus: api.PaymentStatusPending},
	}
	m.selected = 0

	updated, _ := m.Update(keyRune('p'))
	m = updated.(Model)

	assert.Equal(t, paymentClosed, m.payState)
	assert.NotEmpty(t, m.statusLine)
}
