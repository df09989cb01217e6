package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/adbilling/internal/adapter/http/dto"
	"github.com/iho/adbilling/internal/infrastructure/auth"
	"github.com/iho/adbilling/internal/infrastructure/postgres"
)

type options struct {
	baseURL string
	timeout time.Duration
	token   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "adbilling-cli",
		Short:         "adbilling CLI tool",
		Long:          `A command line interface for triggering billing and inspecting the billing ledger and balance accounts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the adbilling API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("ADBILLING_TOKEN"), "Service bearer token")

	rootCmd.AddCommand(
		billCmd(opts),
		transactionCmd(opts),
		sweepCmd(opts),
		accountCmd(opts),
		tokenCmd(),
		migrateCmd(),
	)

	return rootCmd
}

func (o *options) client() *resty.Client {
	client := resty.New().
		SetBaseURL(o.baseURL).
		SetTimeout(o.timeout).
		SetHeader("Content-Type", "application/json")
	if o.token != "" {
		client.SetAuthToken(o.token)
	}
	return client
}

// call sends a request and prints the JSON answer. Statuses listed in
// accepted are printed without failing the command.
func (o *options) call(cmd *cobra.Command, method, path string, body any, accepted ...int) error {
	req := o.client().R().SetContext(cmd.Context())
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	ok := resp.IsSuccess()
	for _, status := range accepted {
		if resp.StatusCode() == status {
			ok = true
		}
	}

	printBody(cmd.OutOrStdout(), resp.Body())
	if !ok {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode())
	}
	return nil
}

func billCmd(opts *options) *cobra.Command {
	var req dto.BillRequest
	var amount string

	cmd := &cobra.Command{
		Use:   "bill",
		Short: "Bill an advertiser for one daily metrics period",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			req.Amount = parsed
			// A failed attempt is a definite answer, not a CLI error.
			return opts.call(cmd, http.MethodPost, "/api/v1/billing", req, http.StatusUnprocessableEntity)
		},
	}

	cmd.Flags().StringVar(&req.DailyMetricsID, "daily-metrics-id", "", "Daily metrics id of the billed period")
	cmd.Flags().StringVar(&req.AdvertiserID, "advertiser", "", "Advertiser id")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount in minor units")
	cmd.Flags().StringVar(&req.Kind, "kind", "DEDUCT", "CHARGE or DEDUCT")
	_ = cmd.MarkFlagRequired("daily-metrics-id")
	_ = cmd.MarkFlagRequired("advertiser")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func transactionCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transaction",
		Short: "Billing ledger operations",
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodGet, "/api/v1/transactions/"+args[0], nil)
		},
	}

	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list <advertiser-id>",
		Short: "List an advertiser's transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/advertisers/%s/transactions?limit=%d&offset=%d", args[0], limit, offset)
			return opts.call(cmd, http.MethodGet, path, nil)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 50, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	reconcileCmd := &cobra.Command{
		Use:   "reconcile <id>",
		Short: "Resolve one transaction now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodPost, "/api/v1/transactions/"+args[0]+"/reconcile", nil)
		},
	}

	cmd.AddCommand(getCmd, listCmd, reconcileCmd)
	return cmd
}

func sweepCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a reconciliation sweep now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodPost, "/api/v1/reconciliation/sweep", nil)
		},
	}
}

func accountCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Advertiser balance account operations",
	}

	var balance string
	openCmd := &cobra.Command{
		Use:   "open <advertiser-id>",
		Short: "Open a balance account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.OpenAccountRequest{AdvertiserID: args[0]}
			parsed, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", balance, err)
			}
			req.InitialBalance = parsed
			return opts.call(cmd, http.MethodPost, "/api/v1/accounts", req)
		},
	}
	openCmd.Flags().StringVar(&balance, "balance", "0", "Initial balance in minor units")

	getCmd := &cobra.Command{
		Use:   "get <advertiser-id>",
		Short: "Show a balance account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodGet, "/api/v1/accounts/"+args[0], nil)
		},
	}

	mutationCmd := &cobra.Command{
		Use:   "mutation <advertiser-id> <idempotency-key>",
		Short: "Show the mutation applied for an idempotency key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodGet, "/api/v1/accounts/"+args[0]+"/mutations/"+args[1], nil)
		},
	}

	cmd.AddCommand(openCmd, getCmd, mutationCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret   string
		service  string
		role     string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a service token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret is required")
			}
			switch r := auth.Role(role); r {
			case auth.RoleAdmin, auth.RoleBiller, auth.RoleBalanceClient:
			default:
				return fmt.Errorf("unknown role %q", role)
			}

			token, err := auth.NewJWTManager(secret, duration).Generate(service, auth.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	cmd.Flags().StringVar(&service, "service", "adbilling-cli", "Calling service name")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleAdmin), "admin, biller or balance_client")
	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "Token lifetime")

	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back database migrations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger()

			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			switch direction {
			case "up":
				return postgres.RunMigrations(databaseURL, log)
			case "down":
				return postgres.RunMigrationsDown(databaseURL, log)
			default:
				return fmt.Errorf("unknown direction %q", direction)
			}
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")

	return cmd
}

// printBody pretty prints JSON bodies and passes anything else through.
func printBody(w io.Writer, body []byte) {
	if len(body) == 0 {
		return
	}

	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		fmt.Fprintln(w, string(bytes.TrimSpace(body)))
		return
	}
	fmt.Fprintln(w, out.String())
}
