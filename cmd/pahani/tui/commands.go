package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pahani/internal/api"
	"pahani/internal/reconcile"
)

// Background commands. Each runs a single backend call off the event loop
// and reports back as a message; the client applies its own timeout, so
// none of these can hang the UI indefinitely.

func (m Model) loadDistricts() tea.Cmd {
	return func() tea.Msg {
		options, err := m.backend.Districts(context.Background())
		return districtsLoadedMsg{options: options, err: err}
	}
}

// loadMandals captures the cascade token at dispatch. Update drops the
// response if the token is stale.
func (m Model) loadMandals(seq int, district string) tea.Cmd {
	return func() tea.Msg {
		options, err := m.backend.Mandals(context.Background(), district)
		return mandalsLoadedMsg{seq: seq, options: options, err: err}
	}
}

func (m Model) loadVillages(seq int, district, mandal string) tea.Cmd {
	return func() tea.Msg {
		options, err := m.backend.Villages(context.Background(), district, mandal)
		return villagesLoadedMsg{seq: seq, options: options, err: err}
	}
}

// loadRequests fetches the caller's requests and attaches payment statuses
// before publishing; the list arrives fully reconciled or not at all.
func (m Model) loadRequests() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		requests, err := m.backend.MyRequests(ctx)
		if err != nil {
			return requestsLoadedMsg{err: err}
		}
		merged := reconcile.AttachPaymentStatuses(ctx, m.backend, requests)
		return requestsLoadedMsg{requests: merged}
	}
}

func (m Model) submitRequest() tea.Cmd {
	req := api.SubmitRequest{
		District:     m.district,
		Mandal:       m.mandal,
		Village:      m.village,
		SurveyNumber: m.survey.Value(),
		FromYear:     m.fromYear,
		ToYear:       m.toYear,
	}
	return func() tea.Msg {
		if err := m.backend.Submit(context.Background(), req); err != nil {
			return submitFinishedMsg{err: err}
		}
		return submitFinishedMsg{refID: newReferenceID()}
	}
}

func (m Model) confirmPayment(requestID int64, transactionID string) tea.Cmd {
	return func() tea.Msg {
		receipt, err := m.backend.ConfirmPayment(context.Background(), requestID, transactionID)
		if err != nil {
			return paymentFinishedMsg{err: err}
		}
		return paymentFinishedMsg{amount: receipt.Amount}
	}
}

func (m Model) checkStatus(id int64) tea.Cmd {
	return func() tea.Msg {
		status, err := m.backend.RequestStatus(context.Background(), id)
		return liveStatusMsg{id: id, status: status, err: err}
	}
}

func (m Model) downloadPDF(id int64) tea.Cmd {
	dir := m.cfg.DownloadDir
	return func() tea.Msg {
		path, err := m.backend.DownloadPDF(context.Background(), id, dir)
		if err != nil {
			m.logger.Debug("download failed", zap.Int64("request_id", id), zap.Error(err))
			return downloadFinishedMsg{id: id, err: err}
		}
		return downloadFinishedMsg{id: id, path: path}
	}
}

// newReferenceID generates the short local reference shown after a
// successful submission.
func newReferenceID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
}
