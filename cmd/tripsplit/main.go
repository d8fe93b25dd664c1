// Command tripsplit works with expense reports stored as JSON files: it
// records, edits and removes expenses, prints balances and settle-up
// payments, and exports Excel workbooks.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kingpin"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/config"
	"github.com/mmynk/tripsplit/internal/export"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/internal/storage/jsonfile"
	"github.com/mmynk/tripsplit/internal/storage/sqlite"
	"github.com/mmynk/tripsplit/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.SetupWithLevel(cfg.Level())

	if err := run(cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "tripsplit:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, args []string, out io.Writer) error {
	app := kingpin.New("tripsplit", "Split shared trip expenses and settle up.")
	dir := app.Flag("dir", "Directory holding expenses_<report>.json files.").Default(cfg.ReportsDir).String()

	cmdReports := app.Command("reports", "List saved reports.")

	cmdNew := app.Command("new", "Start an empty report.")
	newReport := cmdNew.Arg("report", "Report name.").Required().String()
	newParticipants := cmdNew.Arg("participants", "Participant names.").Required().Strings()

	cmdAdd := app.Command("add", "Record an expense.")
	addReport := cmdAdd.Arg("report", "Report name.").Required().String()
	addFlags := registerExpenseFlags(cmdAdd, true)

	cmdEdit := app.Command("edit", "Replace fields of the expense at a position; unset flags keep their value.")
	editReport := cmdEdit.Arg("report", "Report name.").Required().String()
	editPosition := cmdEdit.Arg("position", "Zero-based expense position.").Required().Int()
	editFlags := registerExpenseFlags(cmdEdit, false)

	cmdRemove := app.Command("remove", "Delete the expense at a position; later expenses move up.")
	removeReport := cmdRemove.Arg("report", "Report name.").Required().String()
	removePosition := cmdRemove.Arg("position", "Zero-based expense position.").Required().Int()

	cmdBalances := app.Command("balances", "Show each participant's net balance.")
	balancesReport := cmdBalances.Arg("report", "Report name.").Required().String()

	cmdSettle := app.Command("settle", "Show the payments that settle the report.")
	settleReport := cmdSettle.Arg("report", "Report name.").Required().String()

	cmdSummary := app.Command("summary", "Show paid, share and net balance per participant.")
	summaryReport := cmdSummary.Arg("report", "Report name.").Required().String()

	cmdExport := app.Command("export", "Write the report as an Excel workbook.")
	exportReport := cmdExport.Arg("report", "Report name.").Required().String()
	exportOutput := cmdExport.Flag("output", "Workbook path.").Short('o').String()

	cmdImport := app.Command("import", "Copy a report into the server database.")
	importReport := cmdImport.Arg("report", "Report name.").Required().String()
	importDB := cmdImport.Flag("db", "SQLite database path.").Default(cfg.DBPath).String()

	cmd, err := app.Parse(args)
	if err != nil {
		return err
	}

	reports := jsonfile.NewDir(*dir)

	switch cmd {
	case cmdReports.FullCommand():
		return listReports(out, reports)
	case cmdNew.FullCommand():
		return newTrip(out, reports, *newReport, *newParticipants)
	case cmdAdd.FullCommand():
		return addExpense(out, reports, *addReport, addFlags.input())
	case cmdEdit.FullCommand():
		return editExpense(out, reports, *editReport, *editPosition, editFlags.input())
	case cmdRemove.FullCommand():
		return removeExpense(out, reports, *removeReport, *removePosition)
	case cmdBalances.FullCommand():
		_, report, err := loadReport(reports, *balancesReport)
		if err != nil {
			return err
		}
		return export.WriteBalances(out, report.Outstanding)
	case cmdSettle.FullCommand():
		_, report, err := loadReport(reports, *settleReport)
		if err != nil {
			return err
		}
		return export.WriteText(out, report)
	case cmdSummary.FullCommand():
		_, report, err := loadReport(reports, *summaryReport)
		if err != nil {
			return err
		}
		return export.WriteSummary(out, report.Summaries)
	case cmdExport.FullCommand():
		return exportWorkbook(out, reports, *exportReport, *exportOutput)
	case cmdImport.FullCommand():
		return importTrip(out, reports, *importReport, *importDB)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func listReports(out io.Writer, reports jsonfile.Dir) error {
	names, err := reports.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		_, err := fmt.Fprintln(out, "No reports found.")
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}

func newTrip(out io.Writer, reports jsonfile.Dir, name string, participants []string) error {
	if _, err := reports.Load(name); err == nil {
		return fmt.Errorf("report %s already exists", name)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	roster, err := models.NormalizeParticipants(participants)
	if err != nil {
		return err
	}
	if len(roster) == 0 {
		return fmt.Errorf("%w: at least one participant is required", models.ErrInvalidRoster)
	}

	if err := reports.Save(&models.Trip{Name: name, Participants: roster}); err != nil {
		return err
	}
	slog.Debug("Report created", "report", name, "participants", len(roster))
	_, err = fmt.Fprintf(out, "Created %s with %s\n", jsonfile.FileName(name), strings.Join(roster, ", "))
	return err
}

type expenseInput struct {
	item     string
	payer    string
	amount   string
	sharedBy []string
	all      bool
	date     string
}

type expenseFlags struct {
	item     *string
	payer    *string
	amount   *string
	sharedBy *[]string
	all      *bool
	date     *string
}

func registerExpenseFlags(cmd *kingpin.CmdClause, required bool) expenseFlags {
	item := cmd.Flag("item", "What was bought.")
	payer := cmd.Flag("payer", "Who paid.")
	amount := cmd.Flag("amount", "Total paid, e.g. 12.50.")
	if required {
		item, payer, amount = item.Required(), payer.Required(), amount.Required()
	}
	return expenseFlags{
		item:     item.String(),
		payer:    payer.String(),
		amount:   amount.String(),
		sharedBy: cmd.Flag("shared-by", "Participant sharing the cost; repeatable.").Strings(),
		all:      cmd.Flag("all", "Share among every participant.").Bool(),
		date:     cmd.Flag("date", "Day of the expense (YYYY-MM-DD).").String(),
	}
}

func (f expenseFlags) input() expenseInput {
	return expenseInput{
		item:     *f.item,
		payer:    *f.payer,
		amount:   *f.amount,
		sharedBy: *f.sharedBy,
		all:      *f.all,
		date:     *f.date,
	}
}

// apply overlays the set fields of in on base and validates the result
// against the roster.
func (in expenseInput) apply(base models.Expense, roster []string) (models.Expense, error) {
	item, payer, amount, date := base.Item, base.Payer, base.Amount, base.Date
	if in.item != "" {
		item = in.item
	}
	if in.payer != "" {
		payer = in.payer
	}
	if in.amount != "" {
		d, err := decimal.NewFromString(in.amount)
		if err != nil {
			return models.Expense{}, fmt.Errorf("%w: %q", models.ErrInvalidAmount, in.amount)
		}
		amount = d
	}
	if in.date != "" {
		d, err := models.ParseDate(in.date)
		if err != nil {
			return models.Expense{}, fmt.Errorf("%w: %q", models.ErrInvalidDate, in.date)
		}
		date = d
	}

	sharedBy := base.SharedBy
	switch {
	case in.all:
		sharedBy = roster
	case len(in.sharedBy) > 0:
		sharedBy = in.sharedBy
	}

	expense, err := models.NewExpense(item, payer, amount, sharedBy, date)
	if err != nil {
		return models.Expense{}, err
	}
	if err := expense.ValidateFor(roster); err != nil {
		return models.Expense{}, err
	}
	return expense, nil
}

func addExpense(out io.Writer, reports jsonfile.Dir, name string, in expenseInput) error {
	trip, err := reports.Load(name)
	if err != nil {
		return err
	}

	expense, err := in.apply(models.Expense{Date: models.Today()}, trip.Participants)
	if err != nil {
		return err
	}

	trip.Expenses = append(trip.Expenses, expense)
	if err := reports.Save(trip); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Added %s (%s) paid by %s as expense %d\n",
		expense.Item, export.Money(expense.Amount), expense.Payer, len(trip.Expenses)-1)
	return err
}

func editExpense(out io.Writer, reports jsonfile.Dir, name string, position int, in expenseInput) error {
	trip, err := reports.Load(name)
	if err != nil {
		return err
	}
	if err := checkPosition(trip, position); err != nil {
		return err
	}

	expense, err := in.apply(trip.Expenses[position], trip.Participants)
	if err != nil {
		return err
	}

	trip.Expenses[position] = expense
	if err := reports.Save(trip); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Updated expense %d: %s (%s) paid by %s\n",
		position, expense.Item, export.Money(expense.Amount), expense.Payer)
	return err
}

func removeExpense(out io.Writer, reports jsonfile.Dir, name string, position int) error {
	trip, err := reports.Load(name)
	if err != nil {
		return err
	}
	if err := checkPosition(trip, position); err != nil {
		return err
	}

	removed := trip.Expenses[position]
	trip.Expenses = append(trip.Expenses[:position], trip.Expenses[position+1:]...)
	if err := reports.Save(trip); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Removed expense %d: %s\n", position, removed.Item)
	return err
}

func checkPosition(trip *models.Trip, position int) error {
	if position < 0 || position >= len(trip.Expenses) {
		return fmt.Errorf("%w: %d (report %s has %d expenses)", storage.ErrOutOfRange, position, trip.Name, len(trip.Expenses))
	}
	return nil
}

func loadReport(reports jsonfile.Dir, name string) (*models.Trip, *calculator.Report, error) {
	trip, err := reports.Load(name)
	if err != nil {
		return nil, nil, err
	}
	report, err := calculator.Compute(trip.Expenses, trip.Participants, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("report %s: %w", name, err)
	}
	return trip, report, nil
}

func exportWorkbook(out io.Writer, reports jsonfile.Dir, name, output string) error {
	trip, report, err := loadReport(reports, name)
	if err != nil {
		return err
	}

	data, err := export.WorkbookXLSX(trip, report)
	if err != nil {
		return err
	}
	if output == "" {
		output = name + "_expense_report.xlsx"
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	_, err = fmt.Fprintf(out, "Wrote %s\n", output)
	return err
}

func importTrip(out io.Writer, reports jsonfile.Dir, name, dbPath string) error {
	trip, err := reports.Load(name)
	if err != nil {
		return err
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.CreateTrip(context.Background(), trip); err != nil {
		return err
	}
	slog.Info("Report imported", "report", name, "trip_id", trip.ID, "expenses", len(trip.Expenses))
	_, err = fmt.Fprintf(out, "Imported %s as trip %s\n", name, trip.ID)
	return err
}
