package tui

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"pahani/internal/api"
	"pahani/internal/reconcile"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.SetSize(msg.Width-4, msg.Height-6)
		m.requests = m.resizedRequestsViewport(msg.Width, msg.Height)
		m.refreshRequestsViewport()
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case districtsLoadedMsg:
		if msg.err != nil {
			// Silent degradation: the selector just stays empty.
			m.logger.Warn("failed to fetch districts", zap.Error(msg.err))
			return m, nil
		}
		m.districts = msg.options
		return m, nil

	case mandalsLoadedMsg:
		if msg.seq != m.locSeq {
			return m, nil // superseded by a newer selection
		}
		if msg.err != nil {
			m.logger.Warn("failed to fetch mandals", zap.Error(msg.err))
			return m, nil
		}
		m.mandals = msg.options
		return m, nil

	case villagesLoadedMsg:
		if msg.seq != m.locSeq {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("failed to fetch villages", zap.Error(msg.err))
			return m, nil
		}
		m.villages = msg.options
		return m, nil

	case requestsLoadedMsg:
		m.loadingRequests = false
		if msg.err != nil {
			m.logger.Warn("failed to fetch requests", zap.Error(msg.err))
			m.statusLine = "Could not load your requests."
			return m, nil
		}
		m.userRequests = msg.requests
		if m.selected >= len(m.userRequests) {
			m.selected = 0
		}
		m.refreshRequestsViewport()
		return m, nil

	case submitFinishedMsg:
		m.submitting = false
		if msg.err != nil {
			if api.IsStatus(msg.err, http.StatusUnauthorized) {
				m.submitState = statusUnauthorized
			} else {
				m.submitState = statusError
			}
			return m, nil
		}
		m.submitState = statusSuccess
		m.submitRefID = msg.refID
		m.resetForm()
		m.loadingRequests = true
		return m, tea.Batch(m.spinner.Tick, m.loadRequests())

	case paymentFinishedMsg:
		return m.handlePaymentFinished(msg)

	case liveStatusMsg:
		if msg.err != nil {
			m.logger.Warn("failed to fetch status", zap.Int64("request_id", msg.id), zap.Error(msg.err))
			return m, nil
		}
		m.liveStatuses[msg.id] = msg.status.Message
		m.refreshRequestsViewport()
		return m, nil

	case downloadFinishedMsg:
		// The downloading marker is cleared on success and failure alike.
		m.downloadingID = 0
		if msg.err != nil {
			m.statusLine = api.DownloadFailureMessage(msg.err)
		} else {
			m.statusLine = "Saved " + msg.path
		}
		m.refreshRequestsViewport()
		return m, nil
	}

	return m, nil
}

// busy reports whether any background activity warrants the spinner.
func (m Model) busy() bool {
	return m.submitting || m.loadingRequests ||
		m.payState == paymentSubmitting || m.downloadingID != 0
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// The payment modal captures all input while open.
	if m.payState != paymentClosed {
		return m.handlePaymentKey(msg)
	}

	switch m.viewMode {
	case PickerView:
		return m.handlePickerKey(msg)
	case HelpView:
		switch msg.String() {
		case "esc", "q", "?":
			m.viewMode = m.prevView
		}
		return m, nil
	}

	// Global keys for the form and requests screens.
	switch msg.String() {
	case "tab":
		if m.viewMode == FormView {
			m.viewMode = RequestsView
		} else {
			m.viewMode = FormView
		}
		m.statusLine = ""
		return m, nil
	case "?":
		m.prevView = m.viewMode
		m.viewMode = HelpView
		return m, nil
	}

	if m.viewMode == RequestsView {
		return m.handleRequestsKey(msg)
	}
	return m.handleFormKey(msg)
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The form is frozen while a submission is in flight.
	if m.submitting {
		return m, nil
	}

	switch msg.String() {
	case "up", "shift+tab":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "enter":
		return m.activateField()
	}

	if m.focus == fieldSurvey {
		var cmd tea.Cmd
		m.survey, cmd = m.survey.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setFocus(f formField) {
	m.focus = f
	if f == fieldSurvey {
		m.survey.Focus()
	} else {
		m.survey.Blur()
	}
}

// activateField opens the picker for select fields, or submits.
func (m Model) activateField() (tea.Model, tea.Cmd) {
	switch m.focus {
	case fieldDistrict:
		return m.openPicker(fieldDistrict, "Select District", m.districts)
	case fieldMandal:
		if m.district == "" {
			m.statusLine = "Select a district first."
			return m, nil
		}
		return m.openPicker(fieldMandal, "Select Mandal", m.mandals)
	case fieldVillage:
		if m.mandal == "" {
			m.statusLine = "Select a mandal first."
			return m, nil
		}
		return m.openPicker(fieldVillage, "Select Village", m.villages)
	case fieldFromYear:
		return m.openPicker(fieldFromYear, "Select Starting Year", yearStrings(0))
	case fieldToYear:
		if m.fromYear == 0 {
			m.statusLine = "Select the starting year first."
			return m, nil
		}
		return m.openPicker(fieldToYear, "Select Ending Year", yearStrings(m.fromYear))
	case fieldSurvey:
		m.setFocus(fieldSubmit)
		return m, nil
	case fieldSubmit:
		if !m.formComplete() {
			m.statusLine = "All fields are required."
			return m, nil
		}
		m.submitting = true
		m.submitState = statusNone
		m.statusLine = ""
		return m, tea.Batch(m.spinner.Tick, m.submitRequest())
	}
	return m, nil
}

func (m Model) openPicker(target formField, title string, options []string) (tea.Model, tea.Cmd) {
	items := make([]list.Item, len(options))
	for i, opt := range options {
		items[i] = pickerItem(opt)
	}
	m.picker.Title = title
	m.picker.SetItems(items)
	m.picker.ResetFilter()
	m.picker.Select(0)
	m.pickerFor = target
	m.prevView = m.viewMode
	m.viewMode = PickerView
	m.statusLine = ""
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.picker.FilterState() == list.Filtering {
			break // let the list cancel its own filter
		}
		m.viewMode = m.prevView
		return m, nil
	case tea.KeyEnter:
		if m.picker.FilterState() == list.Filtering {
			break
		}
		item, ok := m.picker.SelectedItem().(pickerItem)
		if !ok {
			m.viewMode = m.prevView
			return m, nil
		}
		return m.applyPick(string(item))
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// applyPick commits a picker selection. Selecting a new parent location
// invalidates every dependent selection and bumps the cascade token so any
// in-flight lookup for the old selection is discarded on arrival.
func (m Model) applyPick(value string) (tea.Model, tea.Cmd) {
	m.viewMode = m.prevView
	var cmd tea.Cmd

	switch m.pickerFor {
	case fieldDistrict:
		m.district = value
		m.mandal = ""
		m.village = ""
		m.mandals = nil
		m.villages = nil
		m.locSeq++
		cmd = m.loadMandals(m.locSeq, value)
	case fieldMandal:
		m.mandal = value
		m.village = ""
		m.villages = nil
		m.locSeq++
		cmd = m.loadVillages(m.locSeq, m.district, value)
	case fieldVillage:
		m.village = value
	case fieldFromYear:
		m.fromYear = parseYear(value)
		if m.toYear != 0 && m.toYear < m.fromYear {
			m.toYear = 0
		}
	case fieldToYear:
		m.toYear = parseYear(value)
	}
	return m, cmd
}

func (m Model) handleRequestsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.refreshRequestsViewport()
		}
		return m, nil
	case "down", "j":
		if m.selected < len(m.userRequests)-1 {
			m.selected++
			m.refreshRequestsViewport()
		}
		return m, nil
	case "r":
		m.loadingRequests = true
		m.statusLine = ""
		return m, tea.Batch(m.spinner.Tick, m.loadRequests())
	case "p":
		req, ok := m.selectedRequest()
		if !ok {
			return m, nil
		}
		if !reconcile.PaymentEligible(req) {
			m.statusLine = "This request is not awaiting payment."
			return m, nil
		}
		return m.openPaymentModal(req)
	case "s":
		req, ok := m.selectedRequest()
		if !ok {
			return m, nil
		}
		return m, m.checkStatus(req.ID)
	case "d":
		req, ok := m.selectedRequest()
		if !ok {
			return m, nil
		}
		if !req.IsPaid || req.PDFS3URL == "" {
			m.statusLine = "PDF being prepared."
			return m, nil
		}
		if m.downloadingID != 0 {
			return m, nil // a download is already running
		}
		m.downloadingID = req.ID
		m.statusLine = ""
		return m, tea.Batch(m.spinner.Tick, m.downloadPDF(req.ID))
	}

	var cmd tea.Cmd
	m.requests, cmd = m.requests.Update(msg)
	return m, cmd
}

func (m Model) selectedRequest() (api.Request, bool) {
	if m.selected < 0 || m.selected >= len(m.userRequests) {
		return api.Request{}, false
	}
	return m.userRequests[m.selected], true
}

func yearStrings(from int) []string {
	years := api.YearOptions(from)
	out := make([]string, len(years))
	for i, y := range years {
		out[i] = fmt.Sprintf("%d", y)
	}
	return out
}

func parseYear(s string) int {
	var y int
	fmt.Sscanf(s, "%d", &y)
	return y
}
