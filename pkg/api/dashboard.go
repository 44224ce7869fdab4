package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const DashboardServiceName = "fintrack.v1.DashboardService"

const (
	DashboardServiceGetDashboardProcedure = "/fintrack.v1.DashboardService/GetDashboard"
	DashboardServiceGetRatesProcedure     = "/fintrack.v1.DashboardService/GetRates"
	DashboardServiceSetRateProcedure      = "/fintrack.v1.DashboardService/SetRate"
)

// GetDashboardRequest bounds income, expenses and spending by date.
// Zero From or To leaves that side open. Net worth and debts are never bounded.
type GetDashboardRequest struct {
	From int64 `json:"from,omitempty"`
	To   int64 `json:"to,omitempty"`
}

type GetDashboardResponse struct {
	// Currency is the caller's default currency; every amount below is in it.
	Currency    string `json:"currency"`
	RatesStatus string `json:"rates_status"`

	NetWorth string `json:"net_worth"`
	Income   string `json:"income"`
	// Expenses is reported as a positive amount.
	Expenses           string           `json:"expenses"`
	SpendingByCategory []*CategoryTotal `json:"spending_by_category"`

	Debts *DebtTotals `json:"debts"`
}

type GetRatesRequest struct {
	// Base defaults to the caller's default currency.
	Base string `json:"base,omitempty"`
}

type GetRatesResponse struct {
	Base        string            `json:"base"`
	RatesStatus string            `json:"rates_status"`
	Rates       map[string]string `json:"rates,omitempty"`
	FetchedAt   int64             `json:"fetched_at,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// SetRateRequest stores a manual rate: Rate units of Currency per one Base.
type SetRateRequest struct {
	Base     string `json:"base"`
	Currency string `json:"currency"`
	Rate     string `json:"rate"`
}

type SetRateResponse struct{}

// DashboardServiceHandler is implemented by the dashboard service.
type DashboardServiceHandler interface {
	GetDashboard(context.Context, *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error)
	GetRates(context.Context, *connect.Request[GetRatesRequest]) (*connect.Response[GetRatesResponse], error)
	SetRate(context.Context, *connect.Request[SetRateRequest]) (*connect.Response[SetRateResponse], error)
}

// NewDashboardServiceHandler builds an HTTP handler from the service implementation.
func NewDashboardServiceHandler(svc DashboardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + DashboardServiceName + "/", routes{
		DashboardServiceGetDashboardProcedure: connect.NewUnaryHandler(DashboardServiceGetDashboardProcedure, svc.GetDashboard, opts...),
		DashboardServiceGetRatesProcedure:     connect.NewUnaryHandler(DashboardServiceGetRatesProcedure, svc.GetRates, opts...),
		DashboardServiceSetRateProcedure:      connect.NewUnaryHandler(DashboardServiceSetRateProcedure, svc.SetRate, opts...),
	}
}

// DashboardServiceClient is a client for the dashboard service.
type DashboardServiceClient struct {
	getDashboard *connect.Client[GetDashboardRequest, GetDashboardResponse]
	getRates     *connect.Client[GetRatesRequest, GetRatesResponse]
	setRate      *connect.Client[SetRateRequest, SetRateResponse]
}

// NewDashboardServiceClient constructs a client for the dashboard service at baseURL.
func NewDashboardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DashboardServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &DashboardServiceClient{
		getDashboard: connect.NewClient[GetDashboardRequest, GetDashboardResponse](httpClient, baseURL+DashboardServiceGetDashboardProcedure, opts...),
		getRates:     connect.NewClient[GetRatesRequest, GetRatesResponse](httpClient, baseURL+DashboardServiceGetRatesProcedure, opts...),
		setRate:      connect.NewClient[SetRateRequest, SetRateResponse](httpClient, baseURL+DashboardServiceSetRateProcedure, opts...),
	}
}

func (c *DashboardServiceClient) GetDashboard(ctx context.Context, req *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

func (c *DashboardServiceClient) GetRates(ctx context.Context, req *connect.Request[GetRatesRequest]) (*connect.Response[GetRatesResponse], error) {
	return c.getRates.CallUnary(ctx, req)
}

func (c *DashboardServiceClient) SetRate(ctx context.Context, req *connect.Request[SetRateRequest]) (*connect.Response[SetRateResponse], error) {
	return c.setRate.CallUnary(ctx, req)
}
