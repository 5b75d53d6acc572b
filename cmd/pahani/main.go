package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pahani/cmd/pahani/tui"
	"pahani/internal/api"
	"pahani/internal/config"
	"pahani/internal/reconcile"
)

var (
	// Global flags
	verbose   bool
	serverURL string
	token     string
	timeout   time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pahani",
	Short: "pahani - terminal client for Pahani land-record requests",
	Long: `pahani is a terminal client for the Vikarabad Revenue Department's
Pahani land-records service.

It submits document requests for a district/mandal/village and survey
number, tracks their approval and payment state, confirms manual UPI
payments, and downloads the prepared PDF documents.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it owns the terminal)
		if cmd.Use == "pahani" && cmd.CalledAs() == "pahani" {
			return nil
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// authCmd stores the access token and server URL in the config file.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store the access token for authenticated requests",
	Long: `Saves the bearer token (and optionally the server URL) to the config
file so subsequent commands and the interactive interface can use it.

Example:
  pahani auth --token eyJhbGci... --server https://pahani.example.org`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := config.Load()
		if token == "" {
			return fmt.Errorf("--token is required")
		}
		cfg.AccessToken = token
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		path, _ := config.File()
		fmt.Printf("Token saved to %s\n", path)
		return nil
	},
}

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "List districts offering Pahani records",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := newClient()
		districts, err := client.Districts(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range districts {
			fmt.Println(d)
		}
		return nil
	},
}

var mandalsCmd = &cobra.Command{
	Use:   "mandals [district]",
	Short: "List mandals of a district",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := newClient()
		mandals, err := client.Mandals(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, m := range mandals {
			fmt.Println(m)
		}
		return nil
	},
}

var villagesCmd = &cobra.Command{
	Use:   "villages [district] [mandal]",
	Short: "List villages of a mandal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := newClient()
		villages, err := client.Villages(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		for _, v := range villages {
			fmt.Println(v)
		}
		return nil
	},
}

var (
	submitDistrict string
	submitMandal   string
	submitVillage  string
	submitSurvey   string
	submitFrom     int
	submitTo       int
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a Pahani document request",
	Long: `Submits a document request for a survey number and year range.

Example:
  pahani submit --district Vikarabad --mandal Marpalle --village X \
    --survey 45/B --from 1995 --to 1998`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if submitFrom < api.MinYear || submitTo > api.MaxYear || submitTo < submitFrom {
			return fmt.Errorf("year range must lie within %d-%d with --to >= --from", api.MinYear, api.MaxYear)
		}
		client, _ := newClient()
		req := api.SubmitRequest{
			District:     submitDistrict,
			Mandal:       submitMandal,
			Village:      submitVillage,
			SurveyNumber: submitSurvey,
			FromYear:     submitFrom,
			ToYear:       submitTo,
		}
		if err := client.Submit(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Printf("Request submitted. Estimated fee: ₹%d\n", reconcile.PaymentAmount(submitFrom, submitTo))
		return nil
	},
}

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List your Pahani requests with payment status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := newClient()
		reqs, err := client.MyRequests(cmd.Context())
		if err != nil {
			return err
		}
		merged := reconcile.AttachPaymentStatuses(cmd.Context(), client, reqs)
		if len(merged) == 0 {
			fmt.Println("No previous requests found.")
			return nil
		}
		for _, r := range merged {
			fmt.Printf("#%d  %s / %s / %s  survey %s  %d-%d  ₹%d  %s\n",
				r.ID, r.District, r.Mandal, r.Village, r.SurveyNumber,
				r.FromYear, r.ToYear,
				reconcile.PaymentAmount(r.FromYear, r.ToYear),
				reconcile.DisplayStatus(r))
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [request-id]",
	Short: "Show the live status message for a request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid request id %q", args[0])
		}
		client, _ := newClient()
		status, err := client.RequestStatus(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Println(status.Message)
		return nil
	},
}

var confirmTxnID string

var confirmPaymentCmd = &cobra.Command{
	Use:   "confirm-payment [request-id]",
	Short: "Confirm a UPI payment with its transaction ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid request id %q", args[0])
		}
		transactionID, err := api.ValidateTransactionID(confirmTxnID)
		if err != nil {
			return err
		}
		client, _ := newClient()
		receipt, err := client.ConfirmPayment(cmd.Context(), id, transactionID)
		if err != nil {
			return fmt.Errorf("%s", api.PaymentFailureMessage(err))
		}
		fmt.Printf("Payment confirmation submitted. Amount: ₹%d. Awaiting admin verification.\n", receipt.Amount)
		return nil
	},
}

var downloadDir string

var downloadCmd = &cobra.Command{
	Use:   "download [request-id]",
	Short: "Download the prepared PDF for a paid request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid request id %q", args[0])
		}
		client, cfg := newClient()
		dir := downloadDir
		if dir == "" {
			dir = cfg.DownloadDir
		}
		path, err := client.DownloadPDF(cmd.Context(), id, dir)
		if err != nil {
			return fmt.Errorf("%s", api.DownloadFailureMessage(err))
		}
		fmt.Printf("Saved %s\n", path)
		return nil
	},
}

// newClient builds the API client from config plus flag overrides.
func newClient() (*api.Client, config.Config) {
	cfg, err := config.Load()
	if err != nil && logger != nil {
		logger.Warn("failed to load config", zap.Error(err))
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if token != "" {
		cfg.AccessToken = token
	}

	clientCfg := api.Config{
		BaseURL: cfg.ServerURL,
		Token:   cfg.AccessToken,
		Timeout: cfg.Timeout(),
		Logger:  logger,
	}
	if timeout > 0 {
		clientCfg.Timeout = timeout
	}
	return api.New(clientCfg), cfg
}

func runInteractive() error {
	client, cfg := newClient()
	model := tui.New(client, cfg, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "bearer token (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (overrides config)")

	submitCmd.Flags().StringVar(&submitDistrict, "district", "", "district name")
	submitCmd.Flags().StringVar(&submitMandal, "mandal", "", "mandal name")
	submitCmd.Flags().StringVar(&submitVillage, "village", "", "village name")
	submitCmd.Flags().StringVar(&submitSurvey, "survey", "", "survey number")
	submitCmd.Flags().IntVar(&submitFrom, "from", 0, "first record year")
	submitCmd.Flags().IntVar(&submitTo, "to", 0, "last record year")
	for _, f := range []string{"district", "mandal", "village", "survey", "from", "to"} {
		_ = submitCmd.MarkFlagRequired(f)
	}

	confirmPaymentCmd.Flags().StringVar(&confirmTxnID, "transaction-id", "", "UPI transaction id")
	_ = confirmPaymentCmd.MarkFlagRequired("transaction-id")

	downloadCmd.Flags().StringVar(&downloadDir, "dir", "", "directory to save the PDF into")

	rootCmd.AddCommand(
		authCmd,
		districtsCmd,
		mandalsCmd,
		villagesCmd,
		submitCmd,
		requestsCmd,
		statusCmd,
		confirmPaymentCmd,
		downloadCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
