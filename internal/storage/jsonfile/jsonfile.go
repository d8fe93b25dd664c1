// Package jsonfile reads and writes expense reports as standalone JSON files.
//
// A report named "lisbon" lives in expenses_lisbon.json:
//
//	{
//	    "participants": ["Alice", "Bob"],
//	    "expenses": [
//	        {"item": "Lunch", "payer": "Alice", "amount": 30.0,
//	         "shared_by": ["Alice", "Bob"], "date": "2025-06-01"}
//	    ]
//	}
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

const (
	filePrefix = "expenses_"
	fileSuffix = ".json"
)

var ErrInvalidReportName = errors.New("invalid report name")

type reportFile struct {
	Participants []string      `json:"participants"`
	Expenses     []expenseFile `json:"expenses"`
}

type expenseFile struct {
	Item     string      `json:"item"`
	Payer    string      `json:"payer"`
	Amount   json.Number `json:"amount"`
	SharedBy []string    `json:"shared_by"`
	Date     models.Date `json:"date"`
}

// FileName returns the file name that holds the named report.
func FileName(report string) string {
	return filePrefix + report + fileSuffix
}

// Dir is a directory of report files.
type Dir struct {
	Path string
}

// NewDir returns a Dir rooted at path. An empty path means the working
// directory.
func NewDir(path string) Dir {
	if path == "" {
		path = "."
	}
	return Dir{Path: path}
}

// List returns the names of every report in the directory, sorted.
func (d Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	reports := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		report := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if report == "" {
			continue
		}
		reports = append(reports, report)
	}
	sort.Strings(reports)
	return reports, nil
}

// Load reads the named report. A missing file yields storage.ErrNotFound.
func (d Dir) Load(report string) (*models.Trip, error) {
	path, err := d.path(report)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("report %s: %w", report, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	trip, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", report, err)
	}
	trip.Name = report
	return trip, nil
}

// Save writes trip to the file named after trip.Name, replacing any
// existing report of that name.
func (d Dir) Save(trip *models.Trip) error {
	path, err := d.path(trip.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.Path, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(d.Path, ".tmp-"+filePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, trip); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func (d Dir) path(report string) (string, error) {
	report = strings.TrimSpace(report)
	if report == "" || strings.ContainsAny(report, `/\`) || report == "." || report == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidReportName, report)
	}
	return filepath.Join(d.Path, FileName(report)), nil
}

// Decode parses a report file. Amounts are rounded to the cent. When the
// file carries no roster, one is derived from the expenses in the order
// names first appear.
func Decode(r io.Reader) (*models.Trip, error) {
	var file reportFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	participants, err := models.NormalizeParticipants(file.Participants)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		Participants: participants,
		Expenses:     make([]models.Expense, 0, len(file.Expenses)),
	}
	for i, fe := range file.Expenses {
		amount, err := decimal.NewFromString(fe.Amount.String())
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w: amount %q", i, models.ErrInvalidAmount, fe.Amount)
		}
		e, err := models.NewExpense(fe.Item, fe.Payer, amount.Round(2), fe.SharedBy, fe.Date)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", i, err)
		}
		trip.Expenses = append(trip.Expenses, e)
	}

	if len(trip.Participants) == 0 {
		trip.Participants = rosterOf(trip.Expenses)
	}
	return trip, nil
}

// Encode writes trip in the report file layout.
func Encode(w io.Writer, trip *models.Trip) error {
	file := reportFile{
		Participants: trip.Participants,
		Expenses:     make([]expenseFile, 0, len(trip.Expenses)),
	}
	if file.Participants == nil {
		file.Participants = []string{}
	}
	for _, e := range trip.Expenses {
		file.Expenses = append(file.Expenses, expenseFile{
			Item:     e.Item,
			Payer:    e.Payer,
			Amount:   json.Number(e.Amount.StringFixed(2)),
			SharedBy: e.SharedBy,
			Date:     e.Date,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func rosterOf(expenses []models.Expense) []string {
	seen := make(map[string]bool)
	var roster []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			roster = append(roster, name)
		}
	}
	for _, e := range expenses {
		add(e.Payer)
		for _, s := range e.SharedBy {
			add(s)
		}
	}
	return roster
}
