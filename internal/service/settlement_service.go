package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/export"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// SettlementService implements the Connect SettlementService: balances,
// settlements, recorded payments and report export.
type SettlementService struct {
	apiconnect.UnimplementedSettlementServiceHandler
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// CalculateSettlement computes a report from the request alone. Nothing is
// stored.
func (s *SettlementService) CalculateSettlement(ctx context.Context, req *connect.Request[api.CalculateSettlementRequest]) (*connect.Response[api.CalculateSettlementResponse], error) {
	slog.Info("CalculateSettlement request received",
		"participants_count", len(req.Msg.Participants),
		"expenses_count", len(req.Msg.Expenses),
		"payments_count", len(req.Msg.Payments),
	)

	participants, err := models.NormalizeParticipants(req.Msg.Participants)
	if err != nil {
		slog.Error("CalculateSettlement roster validation failed", "error", err)
		return nil, toConnectError(err)
	}

	expenses, err := toModelExpenses(req.Msg.Expenses, participants)
	if err != nil {
		slog.Error("CalculateSettlement expense validation failed", "error", err)
		return nil, toConnectError(err)
	}

	payments, err := toModelPayments(req.Msg.Payments)
	if err != nil {
		slog.Error("CalculateSettlement payment validation failed", "error", err)
		return nil, toConnectError(err)
	}

	report, err := calculator.Compute(expenses, participants, payments)
	if err != nil {
		slog.Error("CalculateSettlement failed", "error", err)
		return nil, toConnectError(err)
	}

	for _, st := range report.Settlements {
		slog.Debug("Settlement",
			"from", st.From,
			"to", st.To,
			"amount", st.Amount.String(),
		)
	}

	return connect.NewResponse(&api.CalculateSettlementResponse{Report: toAPIReport(report)}), nil
}

// GetSettlement computes the report of a stored trip, payments included.
func (s *SettlementService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	slog.Info("GetSettlement request received", "trip_id", req.Msg.TripID)

	_, report, err := s.tripReport(ctx, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	slog.Info("GetSettlement successful",
		"trip_id", req.Msg.TripID,
		"settlements_count", len(report.Settlements),
	)

	return connect.NewResponse(&api.GetSettlementResponse{Report: toAPIReport(report)}), nil
}

// RecordPayment stores a settle-up payment and returns the updated report.
func (s *SettlementService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	slog.Info("RecordPayment request received",
		"trip_id", req.Msg.TripID,
		"from", req.Msg.From,
		"to", req.Msg.To,
		"amount", req.Msg.Amount.String(),
	)

	trip, err := loadTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	payment, err := models.NewPayment(req.Msg.From, req.Msg.To, req.Msg.Amount, req.Msg.Note)
	if err != nil {
		slog.Error("RecordPayment validation failed", "error", err)
		return nil, toConnectError(err)
	}
	if err := payment.ValidateFor(trip.Participants); err != nil {
		slog.Error("RecordPayment validation failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	payment.TripID = trip.ID

	if err := s.store.CreatePayment(ctx, &payment); err != nil {
		slog.Error("RecordPayment failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Payment recorded", "trip_id", trip.ID, "payment_id", payment.ID)

	_, report, err := s.tripReport(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	out := toAPIPayment(payment)
	return connect.NewResponse(&api.RecordPaymentResponse{
		Payment: &out,
		Report:  toAPIReport(report),
	}), nil
}

// ListPayments returns a trip's payments, oldest first.
func (s *SettlementService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	slog.Info("ListPayments request received", "trip_id", req.Msg.TripID)

	if err := requireField("trip_id", req.Msg.TripID); err != nil {
		return nil, toConnectError(err)
	}

	payments, err := s.store.ListPayments(ctx, req.Msg.TripID)
	if err != nil {
		slog.Error("ListPayments failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p)
	}

	slog.Info("ListPayments successful", "trip_id", req.Msg.TripID, "count", len(out))

	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// DeletePayment removes a recorded payment.
func (s *SettlementService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	slog.Info("DeletePayment request received", "payment_id", req.Msg.PaymentID)

	if err := requireField("payment_id", req.Msg.PaymentID); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.DeletePayment(ctx, req.Msg.PaymentID); err != nil {
		slog.Error("DeletePayment failed", "payment_id", req.Msg.PaymentID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Payment deleted", "payment_id", req.Msg.PaymentID)

	return connect.NewResponse(&api.DeletePaymentResponse{}), nil
}

// ExportReport renders a trip's report as an Excel workbook.
func (s *SettlementService) ExportReport(ctx context.Context, req *connect.Request[api.ExportReportRequest]) (*connect.Response[api.ExportReportResponse], error) {
	slog.Info("ExportReport request received", "trip_id", req.Msg.TripID)

	trip, data, err := s.Workbook(ctx, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	slog.Info("ExportReport successful", "trip_id", trip.ID, "bytes", len(data))

	return connect.NewResponse(&api.ExportReportResponse{
		Filename:    ReportFilename(trip.Name),
		ContentType: export.ContentTypeXLSX,
		Data:        data,
	}), nil
}

// Workbook builds the Excel report of a stored trip. Errors are Connect
// errors.
func (s *SettlementService) Workbook(ctx context.Context, tripID string) (*models.Trip, []byte, error) {
	trip, report, err := s.tripReport(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}

	data, err := export.WorkbookXLSX(trip, report)
	if err != nil {
		slog.Error("Failed to build workbook", "trip_id", trip.ID, "error", err)
		return nil, nil, toConnectError(err)
	}
	return trip, data, nil
}

func (s *SettlementService) tripReport(ctx context.Context, tripID string) (*models.Trip, *calculator.Report, error) {
	trip, err := loadTrip(ctx, s.store, tripID)
	if err != nil {
		return nil, nil, err
	}

	payments, err := s.store.ListPayments(ctx, trip.ID)
	if err != nil {
		slog.Error("Failed to list payments", "trip_id", trip.ID, "error", err)
		return nil, nil, toConnectError(err)
	}

	report, err := calculator.Compute(trip.Expenses, trip.Participants, payments)
	if err != nil {
		slog.Error("Failed to compute report", "trip_id", trip.ID, "error", err)
		return nil, nil, toConnectError(err)
	}
	return trip, report, nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ReportFilename derives a download file name from a trip name.
func ReportFilename(name string) string {
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.TrimSpace(name), "_"), "_.")
	if slug == "" {
		return "trip_expense_report.xlsx"
	}
	return slug + "_expense_report.xlsx"
}
