package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"pahani/internal/api"
)

// Payment confirmation modal: closed -> open -> submitting -> (closed on
// success | open with error on failure). The modal is only reachable for
// requests that are processed, unpaid, and not already under verification.

func (m Model) openPaymentModal(req api.Request) (tea.Model, tea.Cmd) {
	m.payState = paymentOpen
	m.payRequest = req
	m.payErr = ""
	m.payInput.SetValue("")
	m.payInput.Focus()
	m.statusLine = ""
	return m, nil
}

func (m Model) handlePaymentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Nothing is cancellable mid-submission; the modal unfreezes when the
	// backend answers.
	if m.payState == paymentSubmitting {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.closePaymentModal()
		return m, nil
	case tea.KeyEnter:
		transactionID, err := api.ValidateTransactionID(m.payInput.Value())
		if err != nil {
			// Local validation failure: no network call is made.
			m.payErr = err.Error()
			return m, nil
		}
		m.payState = paymentSubmitting
		m.payErr = ""
		return m, tea.Batch(m.spinner.Tick, m.confirmPayment(m.payRequest.ID, transactionID))
	}

	var cmd tea.Cmd
	m.payInput, cmd = m.payInput.Update(msg)
	return m, cmd
}

func (m Model) handlePaymentFinished(msg paymentFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.payState = paymentOpen
		m.payErr = api.PaymentFailureMessage(msg.err)
		return m, nil
	}

	m.closePaymentModal()
	m.statusLine = fmt.Sprintf(
		"Payment confirmation submitted successfully! Amount: ₹%d. Your payment is now under verification by the admin.",
		msg.amount)
	m.loadingRequests = true
	return m, tea.Batch(m.spinner.Tick, m.loadRequests())
}

func (m *Model) closePaymentModal() {
	m.payState = paymentClosed
	m.payRequest = api.Request{}
	m.payErr = ""
	m.payInput.SetValue("")
	m.payInput.Blur()
}
