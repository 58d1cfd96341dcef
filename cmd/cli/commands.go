package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/infrastructure/auth"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
	output  string
}

func (o *options) client() *apiClient {
	return newAPIClient(o.baseURL, o.token, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "daybook-cli",
		Short:         "Daybook CLI tool",
		Long:          `A command line interface for interacting with the daybook ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the daybook API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", "", "Bearer token when the API requires auth")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format: table or json")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(
		listCmd(opts),
		addCmd(opts),
		deleteCmd(opts),
		summaryCmd(opts),
		balanceCmd(opts),
		consistencyCmd(opts),
	)

	rootCmd.AddCommand(ledgerCmd, daybookCmd(opts), reportCmd(opts), tokenCmd())

	return rootCmd
}

type entryView struct {
	ID          string          `json:"id"`
	EntryDate   string          `json:"entry_date"`
	Particulars string          `json:"particulars"`
	DrAmount    decimal.Decimal `json:"dr_amount"`
	CrAmount    decimal.Decimal `json:"cr_amount"`
	Balance     decimal.Decimal `json:"balance"`
}

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ledger entries in ledger order",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []entryView
			if _, err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/ledger", nil, nil, &entries); err != nil {
				return err
			}

			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tID\tPARTICULARS\tDR\tCR\tBALANCE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.EntryDate, e.ID, truncate(e.Particulars, 40),
					e.DrAmount.StringFixed(2), e.CrAmount.StringFixed(2), e.Balance.StringFixed(2))
			}
			return tw.Flush()
		},
	}
}

func addCmd(opts *options) *cobra.Command {
	var (
		date        string
		particulars string
		dr          string
		cr          string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a ledger entry (debit or credit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().Format(domain.DateLayout)
			}

			body := map[string]any{
				"entry_date":  date,
				"particulars": particulars,
			}
			for field, raw := range map[string]string{"dr_amount": dr, "cr_amount": cr} {
				if raw == "" {
					continue
				}
				amount, err := decimal.NewFromString(raw)
				if err != nil {
					return fmt.Errorf("invalid %s %q: %w", field, raw, err)
				}
				body[field] = amount
			}

			var entry entryView
			if _, err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/ledger", nil, body, &entry); err != nil {
				return err
			}

			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), entry)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s on %s, balance %s\n", entry.ID, entry.EntryDate, entry.Balance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Entry date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&particulars, "particulars", "", "Description of the entry")
	cmd.Flags().StringVar(&dr, "dr", "", "Debit amount")
	cmd.Flags().StringVar(&cr, "cr", "", "Credit amount")
	_ = cmd.MarkFlagRequired("particulars")

	return cmd
}

func deleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a ledger entry; later balances are recomputed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.client().do(cmd.Context(), http.MethodDelete, "/api/v1/ledger/"+url.PathEscape(args[0]), nil, nil, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), env.Message)
			return nil
		},
	}
}

func summaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show ledger totals and current balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var totals struct {
				TotalDr        decimal.Decimal `json:"totalDr"`
				TotalCr        decimal.Decimal `json:"totalCr"`
				CurrentBalance decimal.Decimal `json:"currentBalance"`
				TotalEntries   int64           `json:"totalEntries"`
			}
			if _, err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/ledger/summary", nil, nil, &totals); err != nil {
				return err
			}

			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), totals)
			}
			return printPairs(cmd.OutOrStdout(), [][2]string{
				{"Entries", fmt.Sprint(totals.TotalEntries)},
				{"Total debit", totals.TotalDr.StringFixed(2)},
				{"Total credit", totals.TotalCr.StringFixed(2)},
				{"Current balance", totals.CurrentBalance.StringFixed(2)},
			})
		},
	}
}

func balanceCmd(opts *options) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show opening and closing balance for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if date != "" {
				query.Set("date", date)
			}

			var balance map[string]any
			if _, err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/ledger/balance", query, nil, &balance); err != nil {
				return err
			}

			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), balance)
			}
			return printPairs(cmd.OutOrStdout(), [][2]string{
				{"Date", fmt.Sprint(balance["date"])},
				{"Opening", fmt.Sprint(balance["opening"])},
				{"Total debit", fmt.Sprint(balance["totalDebit"])},
				{"Total credit", fmt.Sprint(balance["totalCredit"])},
				{"Closing", fmt.Sprint(balance["closing"])},
				{"Entries", fmt.Sprint(balance["entryCount"])},
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to report (YYYY-MM-DD, default today)")
	return cmd
}

func consistencyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report map[string]any
			_, err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, nil, &report)

			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
				_ = json.Unmarshal(apiErr.Data, &report)
				fmt.Fprintf(cmd.OutOrStdout(), "Consistency check FAILED: %v\n", report["problem"])
				return errors.New("ledger is inconsistent")
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Consistency check PASSED")
			fmt.Fprintf(cmd.OutOrStdout(), "Entries: %v\nBalance: %v\n", report["totalEntries"], report["recordedBalance"])
			return nil
		},
	}
}

// periodFlags are shared by daybook and report.
type periodFlags struct {
	period string
	anchor string
	start  string
	end    string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.period, "period", "today", "today, 3days, 7days, 30days, week, month or custom")
	cmd.Flags().StringVar(&p.anchor, "date", "", "Anchor day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&p.start, "start", "", "Custom period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.end, "end", "", "Custom period end, inclusive (YYYY-MM-DD)")
}

func (p *periodFlags) query() url.Values {
	q := url.Values{}
	q.Set("period", p.period)
	for key, val := range map[string]string{"date": p.anchor, "start": p.start, "end": p.end} {
		if val != "" {
			q.Set(key, val)
		}
	}
	return q
}

func daybookCmd(opts *options) *cobra.Command {
	flags := &periodFlags{}

	cmd := &cobra.Command{
		Use:   "daybook",
		Short: "Show income and expenditure for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			var book struct {
				TotalIncome      decimal.Decimal            `json:"totalIncome"`
				TotalExpenditure decimal.Decimal            `json:"totalExpenditure"`
				NetProfitLoss    decimal.Decimal            `json:"netProfitLoss"`
				BySource         map[string]decimal.Decimal `json:"bySource"`
				Records          []json.RawMessage          `json:"records"`
			}
			if _, err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/daybook", flags.query(), nil, &book); err != nil {
				return err
			}

			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), book)
			}

			sources := make([]string, 0, len(book.BySource))
			for source := range book.BySource {
				sources = append(sources, source)
			}
			sort.Strings(sources)

			pairs := [][2]string{{"Records", fmt.Sprint(len(book.Records))}}
			for _, source := range sources {
				pairs = append(pairs, [2]string{"  " + source, book.BySource[source].StringFixed(2)})
			}
			pairs = append(pairs,
				[2]string{"Total income", book.TotalIncome.StringFixed(2)},
				[2]string{"Total expenditure", book.TotalExpenditure.StringFixed(2)},
				[2]string{"Net profit/loss", book.NetProfitLoss.StringFixed(2)},
			)
			return printPairs(cmd.OutOrStdout(), pairs)
		},
	}

	flags.register(cmd)
	return cmd
}

func reportCmd(opts *options) *cobra.Command {
	flags := &periodFlags{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the period summary (balances plus day book totals)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary map[string]any
			if _, err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/reports/summary", flags.query(), nil, &summary); err != nil {
				return err
			}

			if opts.output == "json" {
				return printJSON(cmd.OutOrStdout(), summary)
			}
			return printPairs(cmd.OutOrStdout(), [][2]string{
				{"Date", fmt.Sprint(summary["date"])},
				{"Opening", fmt.Sprint(summary["opening"])},
				{"Closing", fmt.Sprint(summary["closing"])},
				{"Total debit", fmt.Sprint(summary["totalDebit"])},
				{"Total credit", fmt.Sprint(summary["totalCredit"])},
				{"Total income", fmt.Sprint(summary["totalIncome"])},
				{"Total expenditure", fmt.Sprint(summary["totalExpenditure"])},
				{"Net profit/loss", fmt.Sprint(summary["netProfitLoss"])},
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		role   string
		id     string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with the server's JWT secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.NewJWTManager(secret, ttl).Generate(&domain.Principal{ID: id, Role: domain.Role(role)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "JWT secret (JWT_SECRET on the server)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleViewer), "admin, operator or viewer")
	cmd.Flags().StringVar(&id, "subject", "cli", "Caller ID stored in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPairs(w io.Writer, pairs [][2]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range pairs {
		fmt.Fprintf(tw, "%s:\t%s\n", p[0], p[1])
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
