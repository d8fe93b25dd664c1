package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
)

var errMissingField = errors.New("missing required field")

// toConnectError maps domain and storage errors to Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, models.ErrInvalidExpense),
		errors.Is(err, models.ErrInvalidPayment),
		errors.Is(err, models.ErrInvalidRoster),
		errors.Is(err, errMissingField):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrOutOfRange):
		return connect.NewError(connect.CodeOutOfRange, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func requireField(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", errMissingField, name)
	}
	return nil
}

// toModelExpense validates an expense from the wire against the roster.
// SharedByAll expands to the whole roster and an empty date means today.
func toModelExpense(e *api.Expense, roster []string) (models.Expense, error) {
	if e == nil {
		return models.Expense{}, fmt.Errorf("%w: expense", errMissingField)
	}

	date := models.Today()
	if e.Date != "" {
		var err error
		date, err = models.ParseDate(e.Date)
		if err != nil {
			return models.Expense{}, fmt.Errorf("%w: %v", models.ErrInvalidDate, err)
		}
	}

	sharedBy := e.SharedBy
	if e.SharedByAll {
		sharedBy = roster
	}

	expense, err := models.NewExpense(e.Item, e.Payer, e.Amount, sharedBy, date)
	if err != nil {
		return models.Expense{}, err
	}
	if err := expense.ValidateFor(roster); err != nil {
		return models.Expense{}, err
	}
	return expense, nil
}

func toModelExpenses(expenses []api.Expense, roster []string) ([]models.Expense, error) {
	out := make([]models.Expense, 0, len(expenses))
	for i := range expenses {
		e, err := toModelExpense(&expenses[i], roster)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func toAPIExpense(e models.Expense) api.Expense {
	return api.Expense{
		ID:       e.ID,
		Item:     e.Item,
		Payer:    e.Payer,
		Amount:   e.Amount,
		SharedBy: e.SharedBy,
		Date:     e.Date.String(),
	}
}

func toAPITrip(t *models.Trip) *api.Trip {
	expenses := make([]api.Expense, len(t.Expenses))
	for i, e := range t.Expenses {
		expenses[i] = toAPIExpense(e)
	}
	participants := t.Participants
	if participants == nil {
		participants = []string{}
	}
	return &api.Trip{
		ID:           t.ID,
		Name:         t.Name,
		Participants: participants,
		Expenses:     expenses,
		CreatedAt:    t.CreatedAt,
	}
}

func toAPIPayment(p models.Payment) api.Payment {
	return api.Payment{
		ID:        p.ID,
		From:      p.From,
		To:        p.To,
		Amount:    p.Amount,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
	}
}

func toModelPayments(payments []api.Payment) ([]models.Payment, error) {
	out := make([]models.Payment, 0, len(payments))
	for i, p := range payments {
		payment, err := models.NewPayment(p.From, p.To, p.Amount, p.Note)
		if err != nil {
			return nil, fmt.Errorf("payment %d: %w", i, err)
		}
		out = append(out, payment)
	}
	return out, nil
}

func toAPIBalances(b calculator.Balances) []api.Balance {
	out := make([]api.Balance, 0, len(b))
	for _, name := range b.Names() {
		out = append(out, api.Balance{Participant: name, Amount: b[name].Round(2)})
	}
	return out
}

func toAPIReport(r *calculator.Report) *api.Report {
	summaries := make([]api.ParticipantSummary, len(r.Summaries))
	for i, s := range r.Summaries {
		summaries[i] = api.ParticipantSummary{
			Participant: s.Participant,
			TotalPaid:   s.TotalPaid,
			TotalShare:  s.TotalShare,
			NetBalance:  s.NetBalance,
		}
	}

	settlements := make([]api.Settlement, len(r.Settlements))
	for i, s := range r.Settlements {
		settlements[i] = api.Settlement{From: s.From, To: s.To, Amount: s.Amount}
	}

	return &api.Report{
		Balances:    toAPIBalances(r.Balances),
		Outstanding: toAPIBalances(r.Outstanding),
		Summaries:   summaries,
		Settlements: settlements,
		Settled:     r.Settled(),
	}
}
