// Package api defines the request and response messages of the tripsplit
// Connect services. Messages travel as JSON; amounts are decimal strings
// such as "12.50".
package api

import "github.com/shopspring/decimal"

// Expense is one purchase on a trip.
type Expense struct {
	ID     string          `json:"id,omitempty"`
	Item   string          `json:"item"`
	Payer  string          `json:"payer"`
	Amount decimal.Decimal `json:"amount"`

	// SharedBy lists the participants splitting the cost.
	SharedBy []string `json:"shared_by,omitempty"`

	// SharedByAll splits the cost among the whole roster and overrides
	// SharedBy.
	SharedByAll bool `json:"shared_by_all,omitempty"`

	// Date is YYYY-MM-DD. Empty means today.
	Date string `json:"date,omitempty"`
}

type Trip struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Participants []string  `json:"participants"`
	Expenses     []Expense `json:"expenses"`
	CreatedAt    int64     `json:"created_at"`
}

type TripSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ParticipantCount int    `json:"participant_count"`
	ExpenseCount     int    `json:"expense_count"`
	CreatedAt        int64  `json:"created_at"`
}

type Payment struct {
	ID        string          `json:"id,omitempty"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt int64           `json:"created_at,omitempty"`
}

// Balance is a participant's signed net balance. Positive means the
// participant is owed money.
type Balance struct {
	Participant string          `json:"participant"`
	Amount      decimal.Decimal `json:"amount"`
}

type Settlement struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type ParticipantSummary struct {
	Participant string          `json:"participant"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	TotalShare  decimal.Decimal `json:"total_share"`
	NetBalance  decimal.Decimal `json:"net_balance"`
}

// Report is everything derived from a trip. Balances come from expenses
// alone; Outstanding also accounts for recorded payments.
type Report struct {
	Balances    []Balance            `json:"balances"`
	Outstanding []Balance            `json:"outstanding"`
	Summaries   []ParticipantSummary `json:"summaries"`
	Settlements []Settlement         `json:"settlements"`
	Settled     bool                 `json:"settled"`
}

// TripService messages.

type CreateTripRequest struct {
	Name         string    `json:"name"`
	Participants []string  `json:"participants"`
	Expenses     []Expense `json:"expenses,omitempty"`
}

type CreateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type GetTripRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripResponse struct {
	Trip *Trip `json:"trip"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []TripSummary `json:"trips"`
}

type UpdateParticipantsRequest struct {
	TripID       string   `json:"trip_id"`
	Participants []string `json:"participants"`
}

type UpdateParticipantsResponse struct {
	Trip *Trip `json:"trip"`
}

type DeleteTripRequest struct {
	TripID string `json:"trip_id"`
}

type DeleteTripResponse struct{}

type AddExpenseRequest struct {
	TripID  string   `json:"trip_id"`
	Expense *Expense `json:"expense"`
}

type AddExpenseResponse struct {
	Position int      `json:"position"`
	Expense  *Expense `json:"expense"`
}

type ReplaceExpenseRequest struct {
	TripID   string   `json:"trip_id"`
	Position int      `json:"position"`
	Expense  *Expense `json:"expense"`
}

type ReplaceExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type RemoveExpenseRequest struct {
	TripID   string `json:"trip_id"`
	Position int    `json:"position"`
}

type RemoveExpenseResponse struct{}

// SettlementService messages.

// CalculateSettlementRequest carries everything needed to compute a report
// without touching storage.
type CalculateSettlementRequest struct {
	Participants []string  `json:"participants"`
	Expenses     []Expense `json:"expenses"`
	Payments     []Payment `json:"payments,omitempty"`
}

type CalculateSettlementResponse struct {
	Report *Report `json:"report"`
}

type GetSettlementRequest struct {
	TripID string `json:"trip_id"`
}

type GetSettlementResponse struct {
	Report *Report `json:"report"`
}

type RecordPaymentRequest struct {
	TripID string          `json:"trip_id"`
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
	Report  *Report  `json:"report"`
}

type ListPaymentsRequest struct {
	TripID string `json:"trip_id"`
}

type ListPaymentsResponse struct {
	Payments []Payment `json:"payments"`
}

type DeletePaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

type DeletePaymentResponse struct{}

type ExportReportRequest struct {
	TripID string `json:"trip_id"`
}

// ExportReportResponse carries the workbook bytes (base64 in JSON).
type ExportReportResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}
