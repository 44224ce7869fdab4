package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const AccountServiceName = "fintrack.v1.AccountService"

const (
	AccountServiceCreateAccountProcedure   = "/fintrack.v1.AccountService/CreateAccount"
	AccountServiceGetAccountProcedure      = "/fintrack.v1.AccountService/GetAccount"
	AccountServiceListAccountsProcedure    = "/fintrack.v1.AccountService/ListAccounts"
	AccountServiceUpdateAccountProcedure   = "/fintrack.v1.AccountService/UpdateAccount"
	AccountServiceDeleteAccountProcedure   = "/fintrack.v1.AccountService/DeleteAccount"
	AccountServiceGetTotalBalanceProcedure = "/fintrack.v1.AccountService/GetTotalBalance"
)

type CreateAccountRequest struct {
	Name string `json:"name"`
	// Type is checking, savings, credit, cash or investment.
	Type           string `json:"type"`
	Currency       string `json:"currency"`
	OpeningBalance string `json:"opening_balance,omitempty"`
}

type CreateAccountResponse struct {
	Account *Account `json:"account"`
}

type GetAccountRequest struct {
	AccountID string `json:"account_id"`
}

type GetAccountResponse struct {
	Account *Account `json:"account"`
}

type ListAccountsRequest struct{}

type ListAccountsResponse struct {
	Accounts []*Account `json:"accounts"`
}

type UpdateAccountRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}

type UpdateAccountResponse struct {
	Account *Account `json:"account"`
}

type DeleteAccountRequest struct {
	AccountID string `json:"account_id"`
}

type DeleteAccountResponse struct{}

type GetTotalBalanceRequest struct {
	// Currency overrides the caller's default currency.
	Currency string `json:"currency,omitempty"`
}

type GetTotalBalanceResponse struct {
	Total       string `json:"total"`
	Currency    string `json:"currency"`
	RatesStatus string `json:"rates_status"`
}

// AccountServiceHandler is implemented by the account service.
type AccountServiceHandler interface {
	CreateAccount(context.Context, *connect.Request[CreateAccountRequest]) (*connect.Response[CreateAccountResponse], error)
	GetAccount(context.Context, *connect.Request[GetAccountRequest]) (*connect.Response[GetAccountResponse], error)
	ListAccounts(context.Context, *connect.Request[ListAccountsRequest]) (*connect.Response[ListAccountsResponse], error)
	UpdateAccount(context.Context, *connect.Request[UpdateAccountRequest]) (*connect.Response[UpdateAccountResponse], error)
	DeleteAccount(context.Context, *connect.Request[DeleteAccountRequest]) (*connect.Response[DeleteAccountResponse], error)
	GetTotalBalance(context.Context, *connect.Request[GetTotalBalanceRequest]) (*connect.Response[GetTotalBalanceResponse], error)
}

// NewAccountServiceHandler builds an HTTP handler from the service implementation.
func NewAccountServiceHandler(svc AccountServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + AccountServiceName + "/", routes{
		AccountServiceCreateAccountProcedure:   connect.NewUnaryHandler(AccountServiceCreateAccountProcedure, svc.CreateAccount, opts...),
		AccountServiceGetAccountProcedure:      connect.NewUnaryHandler(AccountServiceGetAccountProcedure, svc.GetAccount, opts...),
		AccountServiceListAccountsProcedure:    connect.NewUnaryHandler(AccountServiceListAccountsProcedure, svc.ListAccounts, opts...),
		AccountServiceUpdateAccountProcedure:   connect.NewUnaryHandler(AccountServiceUpdateAccountProcedure, svc.UpdateAccount, opts...),
		AccountServiceDeleteAccountProcedure:   connect.NewUnaryHandler(AccountServiceDeleteAccountProcedure, svc.DeleteAccount, opts...),
		AccountServiceGetTotalBalanceProcedure: connect.NewUnaryHandler(AccountServiceGetTotalBalanceProcedure, svc.GetTotalBalance, opts...),
	}
}

// AccountServiceClient is a client for the account service.
type AccountServiceClient struct {
	createAccount   *connect.Client[CreateAccountRequest, CreateAccountResponse]
	getAccount      *connect.Client[GetAccountRequest, GetAccountResponse]
	listAccounts    *connect.Client[ListAccountsRequest, ListAccountsResponse]
	updateAccount   *connect.Client[UpdateAccountRequest, UpdateAccountResponse]
	deleteAccount   *connect.Client[DeleteAccountRequest, DeleteAccountResponse]
	getTotalBalance *connect.Client[GetTotalBalanceRequest, GetTotalBalanceResponse]
}

// NewAccountServiceClient constructs a client for the account service at baseURL.
func NewAccountServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AccountServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AccountServiceClient{
		createAccount:   connect.NewClient[CreateAccountRequest, CreateAccountResponse](httpClient, baseURL+AccountServiceCreateAccountProcedure, opts...),
		getAccount:      connect.NewClient[GetAccountRequest, GetAccountResponse](httpClient, baseURL+AccountServiceGetAccountProcedure, opts...),
		listAccounts:    connect.NewClient[ListAccountsRequest, ListAccountsResponse](httpClient, baseURL+AccountServiceListAccountsProcedure, opts...),
		updateAccount:   connect.NewClient[UpdateAccountRequest, UpdateAccountResponse](httpClient, baseURL+AccountServiceUpdateAccountProcedure, opts...),
		deleteAccount:   connect.NewClient[DeleteAccountRequest, DeleteAccountResponse](httpClient, baseURL+AccountServiceDeleteAccountProcedure, opts...),
		getTotalBalance: connect.NewClient[GetTotalBalanceRequest, GetTotalBalanceResponse](httpClient, baseURL+AccountServiceGetTotalBalanceProcedure, opts...),
	}
}

func (c *AccountServiceClient) CreateAccount(ctx context.Context, req *connect.Request[CreateAccountRequest]) (*connect.Response[CreateAccountResponse], error) {
	return c.createAccount.CallUnary(ctx, req)
}

func (c *AccountServiceClient) GetAccount(ctx context.Context, req *connect.Request[GetAccountRequest]) (*connect.Response[GetAccountResponse], error) {
	return c.getAccount.CallUnary(ctx, req)
}

func (c *AccountServiceClient) ListAccounts(ctx context.Context, req *connect.Request[ListAccountsRequest]) (*connect.Response[ListAccountsResponse], error) {
	return c.listAccounts.CallUnary(ctx, req)
}

func (c *AccountServiceClient) UpdateAccount(ctx context.Context, req *connect.Request[UpdateAccountRequest]) (*connect.Response[UpdateAccountResponse], error) {
	return c.updateAccount.CallUnary(ctx, req)
}

func (c *AccountServiceClient) DeleteAccount(ctx context.Context, req *connect.Request[DeleteAccountRequest]) (*connect.Response[DeleteAccountResponse], error) {
	return c.deleteAccount.CallUnary(ctx, req)
}

func (c *AccountServiceClient) GetTotalBalance(ctx context.Context, req *connect.Request[GetTotalBalanceRequest]) (*connect.Response[GetTotalBalanceResponse], error) {
	return c.getTotalBalance.CallUnary(ctx, req)
}
