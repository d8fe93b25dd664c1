package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/tripsplit/internal/calculator"
)

var printer = message.NewPrinter(language.English)

// Money formats an amount as dollars with thousands separators, e.g. $1,234.50.
func Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

// WriteText writes the settlement summary, one payment per line.
func WriteText(w io.Writer, report *calculator.Report) error {
	if report.Settled() {
		_, err := fmt.Fprintln(w, "Everyone is settled up!")
		return err
	}
	for _, s := range report.Settlements {
		if _, err := fmt.Fprintf(w, "- %s pays %s to %s\n", s.From, Money(s.Amount), s.To); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary writes the per-participant table.
func WriteSummary(w io.Writer, summaries []calculator.ParticipantSummary) error {
	width := len("Participant")
	for _, s := range summaries {
		if len(s.Participant) > width {
			width = len(s.Participant)
		}
	}

	if _, err := fmt.Fprintf(w, "%-*s  %12s  %17s  %12s\n", width, "Participant", "Total Paid", "Share of Expenses", "Net Balance"); err != nil {
		return err
	}
	for _, s := range summaries {
		_, err := fmt.Fprintf(w, "%-*s  %12s  %17s  %12s\n",
			width, s.Participant, Money(s.TotalPaid), Money(s.TotalShare), Money(s.NetBalance))
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteBalances writes each participant's net balance in name order.
func WriteBalances(w io.Writer, balances calculator.Balances) error {
	for _, name := range balances.Names() {
		if _, err := fmt.Fprintf(w, "%s: %s\n", name, Money(balances[name])); err != nil {
			return err
		}
	}
	return nil
}
