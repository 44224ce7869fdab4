package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecUsesSnakeCase(t *testing.T) {
	var c Codec
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&DebtSummary{PersonID: "p1", OwesMe: "10.00", IOwe: "0.00", Net: "10.00", Settlement: "OWED_TO_OWNER"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"person_id":"p1","person_name":"","owes_me":"10.00","i_owe":"0.00","net":"10.00","settlement":"OWED_TO_OWNER"}`, string(data))

	var req CreateTransactionRequest
	require.NoError(t, c.Unmarshal([]byte(`{"account_id":"a1","amount":"-12.50","splits":[{"person_id":"p1","amount":"6.25"}]}`), &req))
	assert.Equal(t, "a1", req.AccountID)
	require.Len(t, req.Splits, 1)
	assert.Equal(t, "6.25", req.Splits[0].Amount)
}

func TestRoutesRejectUnknownProcedures(t *testing.T) {
	path, handler := NewDashboardServiceHandler(stubDashboard{})
	assert.Equal(t, "/fintrack.v1.DashboardService/", path)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fintrack.v1.DashboardService/Nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewDashboardServiceClient(http.DefaultClient, srv.URL+"/")
	_, err := client.SetRate(context.Background(), connect.NewRequest(&SetRateRequest{Base: "USD", Currency: "EUR", Rate: "0.9"}))
	require.NoError(t, err)
}

type stubDashboard struct{}

func (stubDashboard) GetDashboard(context.Context, *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error) {
	return connect.NewResponse(&GetDashboardResponse{}), nil
}

func (stubDashboard) GetRates(context.Context, *connect.Request[GetRatesRequest]) (*connect.Response[GetRatesResponse], error) {
	return connect.NewResponse(&GetRatesResponse{}), nil
}

func (stubDashboard) SetRate(context.Context, *connect.Request[SetRateRequest]) (*connect.Response[SetRateResponse], error) {
	return connect.NewResponse(&SetRateResponse{}), nil
}
