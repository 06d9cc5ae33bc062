package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/stats"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(18)

	profitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var account, userID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the trade statistics of one user",
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, ok := models.AccountByName(account)
			if !ok {
				return fmt.Errorf("unknown account %q", account)
			}
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.tradeBook(acct).Statistics(cmd.Context(), &auth.User{ID: id.String()})
			if err != nil {
				return err
			}
			renderSummary(cmd.OutOrStdout(), acct, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", models.PersonalAccount.Name, "trade account: personal or funded")
	cmd.Flags().StringVar(&userID, "user", "", "owner id (UUID)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func renderSummary(w io.Writer, account models.Account, s stats.Summary) {
	net := profitStyle
	if strings.HasPrefix(s.NetProfitUSD, "-") {
		net = lossStyle
	}

	rows := [][2]string{
		{"Total trades", strconv.Itoa(s.TotalTrades)},
		{"Total risked", "$" + s.TotalRiskedUSD},
		{"Total gain", "$" + s.TotalGainUSD},
		{"Net profit", net.Render("$" + s.NetProfitUSD)},
		{"Wins", strconv.Itoa(s.WinCount)},
		{"Win rate", s.WinRate + "%"},
		{"Buy / Sell", fmt.Sprintf("%d / %d", s.TotalBuyTrades, s.TotalSellTrades)},
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r[0]), r[1])
	}

	title := titleStyle.Render(strings.ToUpper(account.Name[:1]) + account.Name[1:] + " account")
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, title, boxStyle.Render(strings.Join(lines, "\n"))))
}
