// Package tui implements the interactive terminal interface for requesting
// and collecting Pahani land records. The implementation is split across:
//   - model.go: types, construction, Init (this file)
//   - model_update.go: Update loop and key handling
//   - commands.go: background network commands
//   - payment.go: payment confirmation modal
//   - view.go: rendering
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"pahani/cmd/pahani/ui"
	"pahani/internal/api"
	"pahani/internal/config"
)

// Backend is the slice of the API client the TUI depends on.
type Backend interface {
	Districts(ctx context.Context) ([]string, error)
	Mandals(ctx context.Context, district string) ([]string, error)
	Villages(ctx context.Context, district, mandal string) ([]string, error)
	MyRequests(ctx context.Context) ([]api.Request, error)
	PaymentStatus(ctx context.Context, id int64) (api.PaymentStatusInfo, error)
	RequestStatus(ctx context.Context, id int64) (api.RequestStatus, error)
	Submit(ctx context.Context, req api.SubmitRequest) error
	ConfirmPayment(ctx context.Context, requestID int64, transactionID string) (api.PaymentReceipt, error)
	DownloadPDF(ctx context.Context, id int64, dir string) (string, error)
}

// Model is the bubbletea model for the pahani client.
type Model struct {
	backend Backend
	cfg     config.Config
	logger  *zap.Logger

	styles   ui.Styles
	spinner  spinner.Model
	survey   textinput.Model
	picker   list.Model
	requests viewport.Model
	renderer *glamour.TermRenderer

	viewMode   ViewMode
	focus      formField
	pickerFor  formField
	prevView   ViewMode // view to restore when the picker or help closes
	width      int
	height     int
	ready      bool
	statusLine string

	// Form state
	district     string
	mandal       string
	village      string
	fromYear     int
	toYear       int
	districts    []string
	mandals      []string
	villages     []string
	submitting   bool
	submitState  submitStatus
	submitRefID  string

	// Cascade sequencing: bumped on every district/mandal selection so
	// that only the latest lookup's response is applied.
	locSeq int

	// Request list state
	userRequests    []api.Request
	loadingRequests bool
	selected        int
	liveStatuses    map[int64]string
	downloadingID   int64

	// Payment modal
	payState   paymentState
	payRequest api.Request
	payInput   textinput.Model
	payErr     string
}

// New constructs the TUI model. The backend, config, and logger are injected
// so tests can run against fakes.
func New(backend Backend, cfg config.Config, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	survey := textinput.New()
	survey.Placeholder = "e.g., 123/A"
	survey.CharLimit = 32

	pay := textinput.New()
	pay.Placeholder = "Enter your UPI transaction ID"
	pay.CharLimit = 64

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	picker := list.New(nil, delegate, 0, 0)
	picker.SetShowStatusBar(false)
	picker.SetShowHelp(false)

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(76))
	if err != nil {
		renderer = nil
	}

	return Model{
		backend:      backend,
		cfg:          cfg,
		logger:       logger,
		styles:       styles,
		spinner:      sp,
		survey:       survey,
		payInput:     pay,
		picker:       picker,
		renderer:     renderer,
		viewMode:     FormView,
		liveStatuses: make(map[int64]string),
		// Init fires the first request fetch immediately.
		loadingRequests: true,
	}
}

// Init loads districts and the caller's request history on mount.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadDistricts(),
		m.loadRequests(),
	)
}

// resetForm clears every form field after a successful submission.
func (m *Model) resetForm() {
	m.district = ""
	m.mandal = ""
	m.village = ""
	m.fromYear = 0
	m.toYear = 0
	m.mandals = nil
	m.villages = nil
	m.survey.SetValue("")
	m.setFocus(fieldDistrict)
}

// formComplete reports whether every required field has a value.
func (m Model) formComplete() bool {
	return m.district != "" && m.mandal != "" && m.village != "" &&
		m.fromYear != 0 && m.toYear != 0 && m.survey.Value() != ""
}
