package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// OutputOptions controls how classified rule sets are displayed
type OutputOptions struct {
	Currency Currency
}

// JSONOutput is the root JSON output object
type JSONOutput struct {
	RuleSets []JSONRuleSet `json:"rule_sets"`
	Summary  JSONSummary   `json:"summary"`
}

// JSONSummary contains aggregate statistics
type JSONSummary struct {
	Count         int     `json:"count"`
	ActiveCount   int     `json:"active_count"`
	MonthlyCredit float64 `json:"monthly_credit"`
	MonthlyDebit  float64 `json:"monthly_debit"`
	Currency      string  `json:"currency"`
}

// JSONRuleSet is the JSON output format for one classified rule set
type JSONRuleSet struct {
	Name            string   `json:"name"`
	Priority        int      `json:"priority"`
	IsAuto          bool     `json:"is_auto"`
	Direction       string   `json:"direction,omitempty"`
	Period          string   `json:"period,omitempty"`
	Timing          string   `json:"timing,omitempty"`
	TransactionType string   `json:"transaction_type,omitempty"`
	Active          bool     `json:"active"`
	RecordCount     int      `json:"record_count"`
	RecurringAmount float64  `json:"recurring_amount"`
	MonthlyAmount   float64  `json:"monthly_amount"`
	FirstDate       string   `json:"first_date,omitempty"`
	LastDate        string   `json:"last_date,omitempty"`
	NextExpected    string   `json:"next_expected,omitempty"`
	Accounts        []string `json:"accounts,omitempty"`
	CreditCards     []string `json:"credit_cards,omitempty"`
	Messages        []string `json:"messages,omitempty"`
}

// PrintRuleSetsJSON outputs classified rule sets in JSON format
func PrintRuleSetsJSON(w io.Writer, ruleSets []*TransactionRuleSet, curr Currency) {
	output := JSONOutput{Summary: JSONSummary{Currency: curr.Code}}

	for _, rs := range ruleSets {
		if rs.Proto == nil {
			continue
		}
		stats := rs.Proto.Stats
		out := JSONRuleSet{
			Name:            rs.Name,
			Priority:        rs.Priority,
			IsAuto:          rs.IsAuto,
			Direction:       string(rs.Proto.Direction),
			Period:          string(rs.Proto.Period),
			Timing:          string(stats.TimingLabel),
			TransactionType: string(rs.Proto.TransactionType),
			Active:          stats.IsActive,
			RecordCount:     stats.RecordCount,
			RecurringAmount: stats.RecurringAmount,
			MonthlyAmount:   stats.MonthlyAmount,
			Accounts:        stats.Accounts,
			CreditCards:     stats.CreditCards,
			Messages:        stats.Messages,
		}
		if !stats.FirstDate.IsZero() {
			out.FirstDate = stats.FirstDate.Format("2006-01-02")
		}
		if !stats.LastDate.IsZero() {
			out.LastDate = stats.LastDate.Format("2006-01-02")
		}
		if next := NextExpectedDate(stats.LastDate, rs.Proto.Period); !next.IsZero() && stats.IsActive {
			out.NextExpected = next.Format("2006-01-02")
		}

		output.RuleSets = append(output.RuleSets, out)
		output.Summary.Count++
		if stats.IsActive {
			output.Summary.ActiveCount++
			if rs.Proto.Direction == DirectionCredit {
				output.Summary.MonthlyCredit += math.Abs(stats.MonthlyAmount)
			} else {
				output.Summary.MonthlyDebit += math.Abs(stats.MonthlyAmount)
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// PrintRuleSetsTable outputs classified rule sets as a formatted table
func PrintRuleSetsTable(w io.Writer, ruleSets []*TransactionRuleSet, opts OutputOptions) {
	activeCount := 0
	var monthlyCredit, monthlyDebit float64
	classified := 0

	for _, rs := range ruleSets {
		if rs.Proto == nil {
			continue
		}
		classified++
		stats := rs.Proto.Stats
		if stats.IsActive {
			activeCount++
			if rs.Proto.Direction == DirectionCredit {
				monthlyCredit += math.Abs(stats.MonthlyAmount)
			} else {
				monthlyDebit += math.Abs(stats.MonthlyAmount)
			}
		}
	}

	fmt.Fprintf(w, "Classified %d rule sets (%d active)\n\n", classified, activeCount)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{
		"Name", "Pri", "Kind", "Direction", "Period", "Timing", "Active",
		"Last Seen", "Next Due", "Monthly", "Records",
	})

	for _, rs := range ruleSets {
		if rs.Proto == nil {
			continue
		}
		stats := rs.Proto.Stats

		kind := "manual"
		if rs.IsAuto {
			kind = "auto"
		}

		active := text.FgRed.Sprint("NO")
		if stats.IsActive {
			active = text.FgGreen.Sprint("YES")
		}

		lastSeen := ""
		if !stats.LastDate.IsZero() {
			lastSeen = stats.LastDate.Format("2006-01-02")
		}

		nextDue := ""
		if next := NextExpectedDate(stats.LastDate, rs.Proto.Period); !next.IsZero() && stats.IsActive {
			nextDue = next.Format("2006-01-02")
		}

		monthly := ""
		if stats.AmountIsActive {
			monthly = opts.Currency.Format(stats.MonthlyAmount)
		} else {
			monthly = text.FgHiBlack.Sprint("-")
		}

		t.AppendRow(table.Row{
			rs.Name, rs.Priority, kind,
			string(rs.Proto.Direction), string(rs.Proto.Period), string(stats.TimingLabel),
			active, lastSeen, nextDue, monthly, stats.RecordCount,
		})
	}

	t.AppendSeparator()
	t.AppendFooter(table.Row{
		"", "", "", "", "", "", "", "",
		text.Bold.Sprint("Monthly (active)"),
		text.Bold.Sprint(opts.Currency.Format(monthlyCredit) + " / -" + opts.Currency.Format(monthlyDebit)),
		"",
	})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 10, Align: text.AlignRight},
		{Number: 11, Align: text.AlignRight},
	})

	t.Render()
}
