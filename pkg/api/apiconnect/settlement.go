package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService service.
const SettlementServiceName = "tripsplit.v1.SettlementService"

// These constants are the fully-qualified names of the RPCs defined in SettlementService.
const (
	SettlementServiceCalculateSettlementProcedure = "/tripsplit.v1.SettlementService/CalculateSettlement"
	SettlementServiceGetSettlementProcedure       = "/tripsplit.v1.SettlementService/GetSettlement"
	SettlementServiceRecordPaymentProcedure       = "/tripsplit.v1.SettlementService/RecordPayment"
	SettlementServiceListPaymentsProcedure        = "/tripsplit.v1.SettlementService/ListPayments"
	SettlementServiceDeletePaymentProcedure       = "/tripsplit.v1.SettlementService/DeletePayment"
	SettlementServiceExportReportProcedure        = "/tripsplit.v1.SettlementService/ExportReport"
)

// SettlementServiceClient is a client for the tripsplit.v1.SettlementService service.
type SettlementServiceClient interface {
	CalculateSettlement(context.Context, *connect.Request[api.CalculateSettlementRequest]) (*connect.Response[api.CalculateSettlementResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	ExportReport(context.Context, *connect.Request[api.ExportReportRequest]) (*connect.Response[api.ExportReportResponse], error)
}

// NewSettlementServiceClient constructs a client for the
// tripsplit.v1.SettlementService service. Requests are encoded as JSON.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &settlementServiceClient{
		calculateSettlement: connect.NewClient[api.CalculateSettlementRequest, api.CalculateSettlementResponse](httpClient, baseURL+SettlementServiceCalculateSettlementProcedure, opts...),
		getSettlement:       connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL+SettlementServiceGetSettlementProcedure, opts...),
		recordPayment:       connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+SettlementServiceRecordPaymentProcedure, opts...),
		listPayments:        connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+SettlementServiceListPaymentsProcedure, opts...),
		deletePayment:       connect.NewClient[api.DeletePaymentRequest, api.DeletePaymentResponse](httpClient, baseURL+SettlementServiceDeletePaymentProcedure, opts...),
		exportReport:        connect.NewClient[api.ExportReportRequest, api.ExportReportResponse](httpClient, baseURL+SettlementServiceExportReportProcedure, opts...),
	}
}

type settlementServiceClient struct {
	calculateSettlement *connect.Client[api.CalculateSettlementRequest, api.CalculateSettlementResponse]
	getSettlement       *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
	recordPayment       *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	listPayments        *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	deletePayment       *connect.Client[api.DeletePaymentRequest, api.DeletePaymentResponse]
	exportReport        *connect.Client[api.ExportReportRequest, api.ExportReportResponse]
}

func (c *settlementServiceClient) CalculateSettlement(ctx context.Context, req *connect.Request[api.CalculateSettlementRequest]) (*connect.Response[api.CalculateSettlementResponse], error) {
	return c.calculateSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *settlementServiceClient) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	return c.deletePayment.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ExportReport(ctx context.Context, req *connect.Request[api.ExportReportRequest]) (*connect.Response[api.ExportReportResponse], error) {
	return c.exportReport.CallUnary(ctx, req)
}

// SettlementServiceHandler is an implementation of the tripsplit.v1.SettlementService service.
type SettlementServiceHandler interface {
	CalculateSettlement(context.Context, *connect.Request[api.CalculateSettlementRequest]) (*connect.Response[api.CalculateSettlementResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	ExportReport(context.Context, *connect.Request[api.ExportReportRequest]) (*connect.Response[api.ExportReportResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	routes := map[string]http.Handler{
		SettlementServiceCalculateSettlementProcedure: connect.NewUnaryHandler(SettlementServiceCalculateSettlementProcedure, svc.CalculateSettlement, opts...),
		SettlementServiceGetSettlementProcedure:       connect.NewUnaryHandler(SettlementServiceGetSettlementProcedure, svc.GetSettlement, opts...),
		SettlementServiceRecordPaymentProcedure:       connect.NewUnaryHandler(SettlementServiceRecordPaymentProcedure, svc.RecordPayment, opts...),
		SettlementServiceListPaymentsProcedure:        connect.NewUnaryHandler(SettlementServiceListPaymentsProcedure, svc.ListPayments, opts...),
		SettlementServiceDeletePaymentProcedure:       connect.NewUnaryHandler(SettlementServiceDeletePaymentProcedure, svc.DeletePayment, opts...),
		SettlementServiceExportReportProcedure:        connect.NewUnaryHandler(SettlementServiceExportReportProcedure, svc.ExportReport, opts...),
	}
	return "/" + SettlementServiceName + "/", route(routes)
}

// UnimplementedSettlementServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettlementServiceHandler struct{}

func (UnimplementedSettlementServiceHandler) CalculateSettlement(context.Context, *connect.Request[api.CalculateSettlementRequest]) (*connect.Response[api.CalculateSettlementResponse], error) {
	return nil, unimplemented(SettlementServiceCalculateSettlementProcedure)
}

func (UnimplementedSettlementServiceHandler) GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return nil, unimplemented(SettlementServiceGetSettlementProcedure)
}

func (UnimplementedSettlementServiceHandler) RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return nil, unimplemented(SettlementServiceRecordPaymentProcedure)
}

func (UnimplementedSettlementServiceHandler) ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return nil, unimplemented(SettlementServiceListPaymentsProcedure)
}

func (UnimplementedSettlementServiceHandler) DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	return nil, unimplemented(SettlementServiceDeletePaymentProcedure)
}

func (UnimplementedSettlementServiceHandler) ExportReport(context.Context, *connect.Request[api.ExportReportRequest]) (*connect.Response[api.ExportReportResponse], error) {
	return nil, unimplemented(SettlementServiceExportReportProcedure)
}
