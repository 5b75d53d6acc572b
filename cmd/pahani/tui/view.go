package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"pahani/internal/api"
	"pahani/internal/reconcile"
)

const helpMarkdown = `# Pahani Document Request

Submit a formal request to access Pahani land records: detailed information
about land ownership, surveys, and history maintained by the Vikarabad
Revenue Department.

- **Processing Time** — document requests are typically processed within
  5-7 business days.
- **Verified Records** — all provided documents are officially verified and
  authenticated.
- **Secure Access** — your request and documents are handled with complete
  confidentiality.

## Paying for approved requests

Once a request is approved, pay via UPI to ` + "`government@upi`" + ` and
confirm with the transaction ID from your payment app. The fee is ₹10 per
requested record year. After admin verification the document becomes
available for download.

## Keys

| Key | Action |
|-----|--------|
| tab | switch between form and your requests |
| enter | open a selector / submit |
| p | collect records (pay) for the selected request |
| d | download the prepared PDF |
| s | check live status |
| r | refresh the request list |
`

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.payState != paymentClosed {
		return m.renderPaymentModal()
	}

	switch m.viewMode {
	case PickerView:
		return m.styles.Content.Render(m.picker.View())
	case HelpView:
		return m.renderHelp()
	case RequestsView:
		return m.renderRequestsView()
	default:
		return m.renderFormView()
	}
}

func (m Model) renderHeader(title string) string {
	if m.busy() {
		title += "  " + m.spinner.View()
	}
	return m.styles.Header.Render(title)
}

func (m Model) renderFormView() string {
	var sb strings.Builder

	sb.WriteString(m.renderField(fieldDistrict, "District", m.district, "Select District"))
	sb.WriteString(m.renderField(fieldMandal, "Mandal", m.mandal, m.mandalPlaceholder()))
	sb.WriteString(m.renderField(fieldVillage, "Village", m.village, m.villagePlaceholder()))
	sb.WriteString(m.renderField(fieldFromYear, "From Year", yearValue(m.fromYear), "Select Starting Year (1990-2018)"))
	sb.WriteString(m.renderField(fieldToYear, "To Year", yearValue(m.toYear), m.toYearPlaceholder()))

	sb.WriteString(m.focusMarker(fieldSurvey))
	sb.WriteString(m.styles.Label.Render("Survey Number") + "  " + m.survey.View() + "\n")

	sb.WriteString("\n")
	sb.WriteString(m.focusMarker(fieldSubmit))
	submit := "[ Submit Official Request ]"
	if m.submitting {
		submit = "[ Processing Request... ]"
	}
	if m.focus == fieldSubmit {
		sb.WriteString(m.styles.FieldActive.Render(submit) + "\n")
	} else {
		sb.WriteString(m.styles.Bold.Render(submit) + "\n")
	}

	if banner := m.renderSubmitBanner(); banner != "" {
		sb.WriteString(banner + "\n")
	}

	footer := m.styles.Footer.Render("↑/↓ move · enter select · tab your requests · ? help · ctrl+c quit")
	if m.statusLine != "" {
		footer = m.styles.BannerWarning.Render(m.statusLine) + "\n" + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader("Pahani Document Request"),
		m.styles.Content.Render(sb.String()),
		footer,
	)
}

func (m Model) renderField(f formField, label, value, placeholder string) string {
	var sb strings.Builder
	sb.WriteString(m.focusMarker(f))
	sb.WriteString(m.styles.Label.Render(label) + "  ")
	if value == "" {
		sb.WriteString(m.styles.FieldEmpty.Render(placeholder))
	} else if m.focus == f {
		sb.WriteString(m.styles.FieldActive.Render(value))
	} else {
		sb.WriteString(value)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) focusMarker(f formField) string {
	if m.focus == f {
		return m.styles.FieldActive.Render("▸ ")
	}
	return "  "
}

func (m Model) mandalPlaceholder() string {
	if m.district == "" {
		return "(select a district first)"
	}
	return "Select Mandal"
}

func (m Model) villagePlaceholder() string {
	if m.mandal == "" {
		return "(select a mandal first)"
	}
	return "Select Village"
}

func yearValue(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%d", year)
}

func (m Model) toYearPlaceholder() string {
	if m.fromYear == 0 {
		return "(select the starting year first)"
	}
	return "Select Ending Year"
}

func (m Model) renderSubmitBanner() string {
	switch m.submitState {
	case statusSuccess:
		return m.styles.BannerSuccess.Render(
			"Request Submitted Successfully\n" +
				"Your Pahani document request has been submitted and is being processed.\n" +
				"Reference ID: #" + m.submitRefID)
	case statusUnauthorized:
		return m.styles.BannerWarning.Render(
			"Authentication Required\n" +
				"Your session has expired or you are not properly authenticated.\n" +
				"Run `pahani auth` with a fresh token to continue.")
	case statusError:
		return m.styles.BannerError.Render(
			"Request Submission Failed\n" +
				"There was an error processing your request. Please check your\n" +
				"information and try again.")
	}
	return ""
}

func (m Model) renderRequestsView() string {
	footer := m.styles.Footer.Render("↑/↓ select · p pay · d download · s status · r refresh · tab form · q quit")
	if m.statusLine != "" {
		footer = m.styles.BannerWarning.Render(m.statusLine) + "\n" + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader("Your Requests"),
		m.requests.View(),
		footer,
	)
}

func (m *Model) refreshRequestsViewport() {
	m.requests.SetContent(m.renderRequestList())
}

func (m Model) resizedRequestsViewport(width, height int) viewport.Model {
	vp := viewport.New(width, max(height-4, 3))
	vp.SetContent(m.renderRequestList())
	return vp
}

func (m Model) renderRequestList() string {
	if len(m.userRequests) == 0 {
		if m.loadingRequests {
			return m.styles.Muted.Render("Loading your requests...")
		}
		return m.styles.Muted.Render("No previous requests found.")
	}

	var sb strings.Builder
	for i, req := range m.userRequests {
		sb.WriteString(m.renderRequest(req, i == m.selected))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderRequest(req api.Request, selected bool) string {
	marker := "  "
	if selected {
		marker = m.styles.FieldActive.Render("▸ ")
	}

	title := fmt.Sprintf("%s / %s / %s", req.District, req.Mandal, req.Village)
	detail := fmt.Sprintf("Survey No: %s   Years: %d to %d   Amount: ₹%d   Status: %s",
		req.SurveyNumber, req.FromYear, req.ToYear,
		reconcile.PaymentAmount(req.FromYear, req.ToYear),
		reconcile.DisplayStatus(req))

	var lines []string
	lines = append(lines, marker+m.styles.Bold.Render(title))
	lines = append(lines, "  "+detail)

	var hints []string
	if reconcile.PaymentEligible(req) {
		hints = append(hints, "press p to collect records")
	}
	if req.IsPaid && req.PDFS3URL != "" {
		if m.downloadingID == req.ID {
			hints = append(hints, "downloading...")
		} else {
			hints = append(hints, "press d to download PDF")
		}
	}
	if req.IsPaid && req.PDFS3URL == "" {
		hints = append(hints, "PDF being prepared")
	}
	if req.Processed && req.PaymentStatus == api.PaymentStatusPending {
		hints = append(hints, "payment verification in progress")
	}
	if len(hints) > 0 {
		lines = append(lines, "  "+m.styles.Muted.Render(strings.Join(hints, " · ")))
	}

	if live, ok := m.liveStatuses[req.ID]; ok {
		lines = append(lines, "  "+m.styles.Muted.Render("→ "+live))
	}

	return strings.Join(lines, "\n") + "\n"
}

func (m Model) renderPaymentModal() string {
	req := m.payRequest
	var sb strings.Builder

	sb.WriteString(m.styles.Bold.Render("Complete Payment") + "\n\n")
	sb.WriteString(fmt.Sprintf("Request: %s / %s / %s\n", req.District, req.Mandal, req.Village))
	sb.WriteString(fmt.Sprintf("Survey Number: %s\n", req.SurveyNumber))
	sb.WriteString(fmt.Sprintf("Amount: ₹%d (estimate; the backend confirms the charged amount)\n\n",
		reconcile.PaymentAmount(req.FromYear, req.ToYear)))
	sb.WriteString("Pay via UPI to " + m.styles.Bold.Render("government@upi") + "\n\n")

	sb.WriteString(m.styles.Label.Render("Transaction ID") + "\n")
	sb.WriteString(m.payInput.View() + "\n")
	sb.WriteString(m.styles.Muted.Render("Enter the transaction ID received after making the payment") + "\n")

	if m.payErr != "" {
		sb.WriteString("\n" + m.styles.BannerError.Render(m.payErr) + "\n")
	}

	if m.payState == paymentSubmitting {
		sb.WriteString("\n" + m.spinner.View() + " Processing...\n")
	} else {
		sb.WriteString("\n" + m.styles.Footer.Render("enter confirm · esc cancel"))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.styles.Modal.Render(sb.String()))
}

func (m Model) renderHelp() string {
	body := helpMarkdown
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(helpMarkdown); err == nil {
			body = rendered
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.styles.Footer.Render("esc back"),
	)
}
