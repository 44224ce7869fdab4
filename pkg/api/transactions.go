package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const TransactionServiceName = "fintrack.v1.TransactionService"

const (
	TransactionServiceCreateTransactionProcedure = "/fintrack.v1.TransactionService/CreateTransaction"
	TransactionServiceGetTransactionProcedure    = "/fintrack.v1.TransactionService/GetTransaction"
	TransactionServiceListTransactionsProcedure  = "/fintrack.v1.TransactionService/ListTransactions"
	TransactionServiceUpdateTransactionProcedure = "/fintrack.v1.TransactionService/UpdateTransaction"
	TransactionServiceDeleteTransactionProcedure = "/fintrack.v1.TransactionService/DeleteTransaction"
	TransactionServiceSplitEquallyProcedure      = "/fintrack.v1.TransactionService/SplitEqually"
	TransactionServiceCreateCategoryProcedure    = "/fintrack.v1.TransactionService/CreateCategory"
	TransactionServiceListCategoriesProcedure    = "/fintrack.v1.TransactionService/ListCategories"
	TransactionServiceDeleteCategoryProcedure    = "/fintrack.v1.TransactionService/DeleteCategory"
)

type CreateTransactionRequest struct {
	AccountID   string   `json:"account_id"`
	CategoryID  string   `json:"category_id,omitempty"`
	Description string   `json:"description"`
	Amount      string   `json:"amount"`
	Date        int64    `json:"date,omitempty"`
	Splits      []*Split `json:"splits,omitempty"`
}

type CreateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type GetTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type GetTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
	RatesStatus string       `json:"rates_status"`
}

// ListTransactionsRequest filters transactions. Empty fields do not filter.
type ListTransactionsRequest struct {
	AccountID  string `json:"account_id,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	PersonID   string `json:"person_id,omitempty"`
	From       int64  `json:"from,omitempty"`
	To         int64  `json:"to,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
	// Currency is the currency of every ConvertedAmount.
	Currency    string `json:"currency"`
	RatesStatus string `json:"rates_status"`
}

type UpdateTransactionRequest struct {
	TransactionID string   `json:"transaction_id"`
	AccountID     string   `json:"account_id"`
	CategoryID    string   `json:"category_id,omitempty"`
	Description   string   `json:"description"`
	Amount        string   `json:"amount"`
	Date          int64    `json:"date,omitempty"`
	Splits        []*Split `json:"splits,omitempty"`
}

type UpdateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type DeleteTransactionResponse struct{}

// SplitEquallyRequest previews an equal split; nothing is stored.
type SplitEquallyRequest struct {
	Amount    string   `json:"amount"`
	PersonIDs []string `json:"person_ids"`
	// IncludeOwner gives the caller a share as well.
	IncludeOwner bool `json:"include_owner"`
}

type SplitEquallyResponse struct {
	Splits     []*Split `json:"splits"`
	OwnerShare string   `json:"owner_share"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
	// Kind is income or expense.
	Kind  string `json:"kind"`
	Color string `json:"color,omitempty"`
}

type CreateCategoryResponse struct {
	Category *Category `json:"category"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

type DeleteCategoryRequest struct {
	CategoryID string `json:"category_id"`
}

type DeleteCategoryResponse struct{}

// TransactionServiceHandler is implemented by the transaction service.
type TransactionServiceHandler interface {
	CreateTransaction(context.Context, *connect.Request[CreateTransactionRequest]) (*connect.Response[CreateTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[GetTransactionRequest]) (*connect.Response[GetTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	UpdateTransaction(context.Context, *connect.Request[UpdateTransactionRequest]) (*connect.Response[UpdateTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[DeleteTransactionRequest]) (*connect.Response[DeleteTransactionResponse], error)
	SplitEqually(context.Context, *connect.Request[SplitEquallyRequest]) (*connect.Response[SplitEquallyResponse], error)
	CreateCategory(context.Context, *connect.Request[CreateCategoryRequest]) (*connect.Response[CreateCategoryResponse], error)
	ListCategories(context.Context, *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error)
	DeleteCategory(context.Context, *connect.Request[DeleteCategoryRequest]) (*connect.Response[DeleteCategoryResponse], error)
}

// NewTransactionServiceHandler builds an HTTP handler from the service implementation.
func NewTransactionServiceHandler(svc TransactionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + TransactionServiceName + "/", routes{
		TransactionServiceCreateTransactionProcedure: connect.NewUnaryHandler(TransactionServiceCreateTransactionProcedure, svc.CreateTransaction, opts...),
		TransactionServiceGetTransactionProcedure:    connect.NewUnaryHandler(TransactionServiceGetTransactionProcedure, svc.GetTransaction, opts...),
		TransactionServiceListTransactionsProcedure:  connect.NewUnaryHandler(TransactionServiceListTransactionsProcedure, svc.ListTransactions, opts...),
		TransactionServiceUpdateTransactionProcedure: connect.NewUnaryHandler(TransactionServiceUpdateTransactionProcedure, svc.UpdateTransaction, opts...),
		TransactionServiceDeleteTransactionProcedure: connect.NewUnaryHandler(TransactionServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...),
		TransactionServiceSplitEquallyProcedure:      connect.NewUnaryHandler(TransactionServiceSplitEquallyProcedure, svc.SplitEqually, opts...),
		TransactionServiceCreateCategoryProcedure:    connect.NewUnaryHandler(TransactionServiceCreateCategoryProcedure, svc.CreateCategory, opts...),
		TransactionServiceListCategoriesProcedure:    connect.NewUnaryHandler(TransactionServiceListCategoriesProcedure, svc.ListCategories, opts...),
		TransactionServiceDeleteCategoryProcedure:    connect.NewUnaryHandler(TransactionServiceDeleteCategoryProcedure, svc.DeleteCategory, opts...),
	}
}

// TransactionServiceClient is a client for the transaction service.
type TransactionServiceClient struct {
	createTransaction *connect.Client[CreateTransactionRequest, CreateTransactionResponse]
	getTransaction    *connect.Client[GetTransactionRequest, GetTransactionResponse]
	listTransactions  *connect.Client[ListTransactionsRequest, ListTransactionsResponse]
	updateTransaction *connect.Client[UpdateTransactionRequest, UpdateTransactionResponse]
	deleteTransaction *connect.Client[DeleteTransactionRequest, DeleteTransactionResponse]
	splitEqually      *connect.Client[SplitEquallyRequest, SplitEquallyResponse]
	createCategory    *connect.Client[CreateCategoryRequest, CreateCategoryResponse]
	listCategories    *connect.Client[ListCategoriesRequest, ListCategoriesResponse]
	deleteCategory    *connect.Client[DeleteCategoryRequest, DeleteCategoryResponse]
}

// NewTransactionServiceClient constructs a client for the transaction service at baseURL.
func NewTransactionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TransactionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &TransactionServiceClient{
		createTransaction: connect.NewClient[CreateTransactionRequest, CreateTransactionResponse](httpClient, baseURL+TransactionServiceCreateTransactionProcedure, opts...),
		getTransaction:    connect.NewClient[GetTransactionRequest, GetTransactionResponse](httpClient, baseURL+TransactionServiceGetTransactionProcedure, opts...),
		listTransactions:  connect.NewClient[ListTransactionsRequest, ListTransactionsResponse](httpClient, baseURL+TransactionServiceListTransactionsProcedure, opts...),
		updateTransaction: connect.NewClient[UpdateTransactionRequest, UpdateTransactionResponse](httpClient, baseURL+TransactionServiceUpdateTransactionProcedure, opts...),
		deleteTransaction: connect.NewClient[DeleteTransactionRequest, DeleteTransactionResponse](httpClient, baseURL+TransactionServiceDeleteTransactionProcedure, opts...),
		splitEqually:      connect.NewClient[SplitEquallyRequest, SplitEquallyResponse](httpClient, baseURL+TransactionServiceSplitEquallyProcedure, opts...),
		createCategory:    connect.NewClient[CreateCategoryRequest, CreateCategoryResponse](httpClient, baseURL+TransactionServiceCreateCategoryProcedure, opts...),
		listCategories:    connect.NewClient[ListCategoriesRequest, ListCategoriesResponse](httpClient, baseURL+TransactionServiceListCategoriesProcedure, opts...),
		deleteCategory:    connect.NewClient[DeleteCategoryRequest, DeleteCategoryResponse](httpClient, baseURL+TransactionServiceDeleteCategoryProcedure, opts...),
	}
}

func (c *TransactionServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[CreateTransactionRequest]) (*connect.Response[CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) GetTransaction(ctx context.Context, req *connect.Request[GetTransactionRequest]) (*connect.Response[GetTransactionResponse], error) {
	return c.getTransaction.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) UpdateTransaction(ctx context.Context, req *connect.Request[UpdateTransactionRequest]) (*connect.Response[UpdateTransactionResponse], error) {
	return c.updateTransaction.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[DeleteTransactionRequest]) (*connect.Response[DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) SplitEqually(ctx context.Context, req *connect.Request[SplitEquallyRequest]) (*connect.Response[SplitEquallyResponse], error) {
	return c.splitEqually.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) CreateCategory(ctx context.Context, req *connect.Request[CreateCategoryRequest]) (*connect.Response[CreateCategoryResponse], error) {
	return c.createCategory.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) ListCategories(ctx context.Context, req *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

func (c *TransactionServiceClient) DeleteCategory(ctx context.Context, req *connect.Request[DeleteCategoryRequest]) (*connect.Response[DeleteCategoryResponse], error) {
	return c.deleteCategory.CallUnary(ctx, req)
}
