// Package apiconnect wires the api messages to Connect handlers and clients.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/pkg/api"
)

// TripServiceName is the fully-qualified name of the TripService service.
const TripServiceName = "tripsplit.v1.TripService"

// These constants are the fully-qualified names of the RPCs defined in TripService.
const (
	TripServiceCreateTripProcedure         = "/tripsplit.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure            = "/tripsplit.v1.TripService/GetTrip"
	TripServiceListTripsProcedure          = "/tripsplit.v1.TripService/ListTrips"
	TripServiceUpdateParticipantsProcedure = "/tripsplit.v1.TripService/UpdateParticipants"
	TripServiceDeleteTripProcedure         = "/tripsplit.v1.TripService/DeleteTrip"
	TripServiceAddExpenseProcedure         = "/tripsplit.v1.TripService/AddExpense"
	TripServiceReplaceExpenseProcedure     = "/tripsplit.v1.TripService/ReplaceExpense"
	TripServiceRemoveExpenseProcedure      = "/tripsplit.v1.TripService/RemoveExpense"
)

// TripServiceClient is a client for the tripsplit.v1.TripService service.
type TripServiceClient interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	UpdateParticipants(context.Context, *connect.Request[api.UpdateParticipantsRequest]) (*connect.Response[api.UpdateParticipantsResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	ReplaceExpense(context.Context, *connect.Request[api.ReplaceExpenseRequest]) (*connect.Response[api.ReplaceExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
}

// NewTripServiceClient constructs a client for the tripsplit.v1.TripService
// service. Requests are encoded as JSON.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TripServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &tripServiceClient{
		createTrip:         connect.NewClient[api.CreateTripRequest, api.CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, opts...),
		getTrip:            connect.NewClient[api.GetTripRequest, api.GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		listTrips:          connect.NewClient[api.ListTripsRequest, api.ListTripsResponse](httpClient, baseURL+TripServiceListTripsProcedure, opts...),
		updateParticipants: connect.NewClient[api.UpdateParticipantsRequest, api.UpdateParticipantsResponse](httpClient, baseURL+TripServiceUpdateParticipantsProcedure, opts...),
		deleteTrip:         connect.NewClient[api.DeleteTripRequest, api.DeleteTripResponse](httpClient, baseURL+TripServiceDeleteTripProcedure, opts...),
		addExpense:         connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+TripServiceAddExpenseProcedure, opts...),
		replaceExpense:     connect.NewClient[api.ReplaceExpenseRequest, api.ReplaceExpenseResponse](httpClient, baseURL+TripServiceReplaceExpenseProcedure, opts...),
		removeExpense:      connect.NewClient[api.RemoveExpenseRequest, api.RemoveExpenseResponse](httpClient, baseURL+TripServiceRemoveExpenseProcedure, opts...),
	}
}

type tripServiceClient struct {
	createTrip         *connect.Client[api.CreateTripRequest, api.CreateTripResponse]
	getTrip            *connect.Client[api.GetTripRequest, api.GetTripResponse]
	listTrips          *connect.Client[api.ListTripsRequest, api.ListTripsResponse]
	updateParticipants *connect.Client[api.UpdateParticipantsRequest, api.UpdateParticipantsResponse]
	deleteTrip         *connect.Client[api.DeleteTripRequest, api.DeleteTripResponse]
	addExpense         *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	replaceExpense     *connect.Client[api.ReplaceExpenseRequest, api.ReplaceExpenseResponse]
	removeExpense      *connect.Client[api.RemoveExpenseRequest, api.RemoveExpenseResponse]
}

func (c *tripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

func (c *tripServiceClient) UpdateParticipants(ctx context.Context, req *connect.Request[api.UpdateParticipantsRequest]) (*connect.Response[api.UpdateParticipantsResponse], error) {
	return c.updateParticipants.CallUnary(ctx, req)
}

func (c *tripServiceClient) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return c.deleteTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *tripServiceClient) ReplaceExpense(ctx context.Context, req *connect.Request[api.ReplaceExpenseRequest]) (*connect.Response[api.ReplaceExpenseResponse], error) {
	return c.replaceExpense.CallUnary(ctx, req)
}

func (c *tripServiceClient) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return c.removeExpense.CallUnary(ctx, req)
}

// TripServiceHandler is an implementation of the tripsplit.v1.TripService service.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	UpdateParticipants(context.Context, *connect.Request[api.UpdateParticipantsRequest]) (*connect.Response[api.UpdateParticipantsResponse], error)
	DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	ReplaceExpense(context.Context, *connect.Request[api.ReplaceExpenseRequest]) (*connect.Response[api.ReplaceExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
}

// NewTripServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	routes := map[string]http.Handler{
		TripServiceCreateTripProcedure:         connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...),
		TripServiceGetTripProcedure:            connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...),
		TripServiceListTripsProcedure:          connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, opts...),
		TripServiceUpdateParticipantsProcedure: connect.NewUnaryHandler(TripServiceUpdateParticipantsProcedure, svc.UpdateParticipants, opts...),
		TripServiceDeleteTripProcedure:         connect.NewUnaryHandler(TripServiceDeleteTripProcedure, svc.DeleteTrip, opts...),
		TripServiceAddExpenseProcedure:         connect.NewUnaryHandler(TripServiceAddExpenseProcedure, svc.AddExpense, opts...),
		TripServiceReplaceExpenseProcedure:     connect.NewUnaryHandler(TripServiceReplaceExpenseProcedure, svc.ReplaceExpense, opts...),
		TripServiceRemoveExpenseProcedure:      connect.NewUnaryHandler(TripServiceRemoveExpenseProcedure, svc.RemoveExpense, opts...),
	}
	return "/" + TripServiceName + "/", route(routes)
}

// UnimplementedTripServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedTripServiceHandler struct{}

func (UnimplementedTripServiceHandler) CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return nil, unimplemented(TripServiceCreateTripProcedure)
}

func (UnimplementedTripServiceHandler) GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return nil, unimplemented(TripServiceGetTripProcedure)
}

func (UnimplementedTripServiceHandler) ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return nil, unimplemented(TripServiceListTripsProcedure)
}

func (UnimplementedTripServiceHandler) UpdateParticipants(context.Context, *connect.Request[api.UpdateParticipantsRequest]) (*connect.Response[api.UpdateParticipantsResponse], error) {
	return nil, unimplemented(TripServiceUpdateParticipantsProcedure)
}

func (UnimplementedTripServiceHandler) DeleteTrip(context.Context, *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	return nil, unimplemented(TripServiceDeleteTripProcedure)
}

func (UnimplementedTripServiceHandler) AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return nil, unimplemented(TripServiceAddExpenseProcedure)
}

func (UnimplementedTripServiceHandler) ReplaceExpense(context.Context, *connect.Request[api.ReplaceExpenseRequest]) (*connect.Response[api.ReplaceExpenseResponse], error) {
	return nil, unimplemented(TripServiceReplaceExpenseProcedure)
}

func (UnimplementedTripServiceHandler) RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return nil, unimplemented(TripServiceRemoveExpenseProcedure)
}

func route(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func unimplemented(procedure string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(procedure+" is not implemented"))
}
