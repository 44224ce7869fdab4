package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const PeopleServiceName = "fintrack.v1.PeopleService"

const (
	PeopleServiceCreatePersonProcedure   = "/fintrack.v1.PeopleService/CreatePerson"
	PeopleServiceGetPersonProcedure      = "/fintrack.v1.PeopleService/GetPerson"
	PeopleServiceListPeopleProcedure     = "/fintrack.v1.PeopleService/ListPeople"
	PeopleServiceUpdatePersonProcedure   = "/fintrack.v1.PeopleService/UpdatePerson"
	PeopleServiceDeletePersonProcedure   = "/fintrack.v1.PeopleService/DeletePerson"
	PeopleServiceGetDebtsProcedure       = "/fintrack.v1.PeopleService/GetDebts"
	PeopleServiceGetPersonDebtsProcedure = "/fintrack.v1.PeopleService/GetPersonDebts"
	PeopleServiceSettleUpProcedure       = "/fintrack.v1.PeopleService/SettleUp"
)

type CreatePersonRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

type CreatePersonResponse struct {
	Person *Person `json:"person"`
}

type GetPersonRequest struct {
	PersonID string `json:"person_id"`
}

type GetPersonResponse struct {
	Person *Person `json:"person"`
}

type ListPeopleRequest struct{}

type ListPeopleResponse struct {
	People []*Person `json:"people"`
}

type UpdatePersonRequest struct {
	PersonID string `json:"person_id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type UpdatePersonResponse struct {
	Person *Person `json:"person"`
}

type DeletePersonRequest struct {
	PersonID string `json:"person_id"`
}

type DeletePersonResponse struct{}

type GetDebtsRequest struct{}

type GetDebtsResponse struct {
	// Debts has one entry per person, ordered by name.
	Debts  []*DebtSummary `json:"debts"`
	Totals *DebtTotals    `json:"totals"`
}

type GetPersonDebtsRequest struct {
	PersonID string `json:"person_id"`
}

type GetPersonDebtsResponse struct {
	Person *Person      `json:"person"`
	Debt   *DebtSummary `json:"debt"`
	// Transactions are the ones with a split for the person, newest first.
	Transactions []*Transaction `json:"transactions"`
}

type SettleUpRequest struct {
	PersonID string `json:"person_id"`
	// AccountID is the account the settling payment goes through.
	AccountID   string `json:"account_id"`
	Description string `json:"description,omitempty"`
	// Date defaults to now.
	Date int64 `json:"date,omitempty"`
}

type SettleUpResponse struct {
	Transaction *Transaction `json:"transaction"`
	Debt        *DebtSummary `json:"debt"`
}

// PeopleServiceHandler is implemented by the people service.
type PeopleServiceHandler interface {
	CreatePerson(context.Context, *connect.Request[CreatePersonRequest]) (*connect.Response[CreatePersonResponse], error)
	GetPerson(context.Context, *connect.Request[GetPersonRequest]) (*connect.Response[GetPersonResponse], error)
	ListPeople(context.Context, *connect.Request[ListPeopleRequest]) (*connect.Response[ListPeopleResponse], error)
	UpdatePerson(context.Context, *connect.Request[UpdatePersonRequest]) (*connect.Response[UpdatePersonResponse], error)
	DeletePerson(context.Context, *connect.Request[DeletePersonRequest]) (*connect.Response[DeletePersonResponse], error)
	GetDebts(context.Context, *connect.Request[GetDebtsRequest]) (*connect.Response[GetDebtsResponse], error)
	GetPersonDebts(context.Context, *connect.Request[GetPersonDebtsRequest]) (*connect.Response[GetPersonDebtsResponse], error)
	SettleUp(context.Context, *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error)
}

// NewPeopleServiceHandler builds an HTTP handler from the service implementation.
func NewPeopleServiceHandler(svc PeopleServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + PeopleServiceName + "/", routes{
		PeopleServiceCreatePersonProcedure:   connect.NewUnaryHandler(PeopleServiceCreatePersonProcedure, svc.CreatePerson, opts...),
		PeopleServiceGetPersonProcedure:      connect.NewUnaryHandler(PeopleServiceGetPersonProcedure, svc.GetPerson, opts...),
		PeopleServiceListPeopleProcedure:     connect.NewUnaryHandler(PeopleServiceListPeopleProcedure, svc.ListPeople, opts...),
		PeopleServiceUpdatePersonProcedure:   connect.NewUnaryHandler(PeopleServiceUpdatePersonProcedure, svc.UpdatePerson, opts...),
		PeopleServiceDeletePersonProcedure:   connect.NewUnaryHandler(PeopleServiceDeletePersonProcedure, svc.DeletePerson, opts...),
		PeopleServiceGetDebtsProcedure:       connect.NewUnaryHandler(PeopleServiceGetDebtsProcedure, svc.GetDebts, opts...),
		PeopleServiceGetPersonDebtsProcedure: connect.NewUnaryHandler(PeopleServiceGetPersonDebtsProcedure, svc.GetPersonDebts, opts...),
		PeopleServiceSettleUpProcedure:       connect.NewUnaryHandler(PeopleServiceSettleUpProcedure, svc.SettleUp, opts...),
	}
}

// PeopleServiceClient is a client for the people service.
type PeopleServiceClient struct {
	createPerson   *connect.Client[CreatePersonRequest, CreatePersonResponse]
	getPerson      *connect.Client[GetPersonRequest, GetPersonResponse]
	listPeople     *connect.Client[ListPeopleRequest, ListPeopleResponse]
	updatePerson   *connect.Client[UpdatePersonRequest, UpdatePersonResponse]
	deletePerson   *connect.Client[DeletePersonRequest, DeletePersonResponse]
	getDebts       *connect.Client[GetDebtsRequest, GetDebtsResponse]
	getPersonDebts *connect.Client[GetPersonDebtsRequest, GetPersonDebtsResponse]
	settleUp       *connect.Client[SettleUpRequest, SettleUpResponse]
}

// NewPeopleServiceClient constructs a client for the people service at baseURL.
func NewPeopleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PeopleServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &PeopleServiceClient{
		createPerson:   connect.NewClient[CreatePersonRequest, CreatePersonResponse](httpClient, baseURL+PeopleServiceCreatePersonProcedure, opts...),
		getPerson:      connect.NewClient[GetPersonRequest, GetPersonResponse](httpClient, baseURL+PeopleServiceGetPersonProcedure, opts...),
		listPeople:     connect.NewClient[ListPeopleRequest, ListPeopleResponse](httpClient, baseURL+PeopleServiceListPeopleProcedure, opts...),
		updatePerson:   connect.NewClient[UpdatePersonRequest, UpdatePersonResponse](httpClient, baseURL+PeopleServiceUpdatePersonProcedure, opts...),
		deletePerson:   connect.NewClient[DeletePersonRequest, DeletePersonResponse](httpClient, baseURL+PeopleServiceDeletePersonProcedure, opts...),
		getDebts:       connect.NewClient[GetDebtsRequest, GetDebtsResponse](httpClient, baseURL+PeopleServiceGetDebtsProcedure, opts...),
		getPersonDebts: connect.NewClient[GetPersonDebtsRequest, GetPersonDebtsResponse](httpClient, baseURL+PeopleServiceGetPersonDebtsProcedure, opts...),
		settleUp:       connect.NewClient[SettleUpRequest, SettleUpResponse](httpClient, baseURL+PeopleServiceSettleUpProcedure, opts...),
	}
}

func (c *PeopleServiceClient) CreatePerson(ctx context.Context, req *connect.Request[CreatePersonRequest]) (*connect.Response[CreatePersonResponse], error) {
	return c.createPerson.CallUnary(ctx, req)
}

func (c *PeopleServiceClient) GetPerson(ctx context.Context, req *connect.Request[GetPersonRequest]) (*connect.Response[GetPersonResponse], error) {
	return c.getPerson.CallUnary(ctx, req)
}

func (c *PeopleServiceClient) ListPeople(ctx context.Context, req *connect.Request[ListPeopleRequest]) (*connect.Response[ListPeopleResponse], error) {
	return c.listPeople.CallUnary(ctx, req)
}

func (c *PeopleServiceClient) UpdatePerson(ctx context.Context, req *connect.Request[UpdatePersonRequest]) (*connect.Response[UpdatePersonResponse], error) {
	return c.updatePerson.CallUnary(ctx, req)
}

func (c *PeopleServiceClient) DeletePerson(ctx context.Context, req *connect.Request[DeletePersonRequest]) (*connect.Response[DeletePersonResponse], error) {
	return c.deletePerson.CallUnary(ctx, req)
}

func (c *PeopleServiceClient) GetDebts(ctx context.Context, req *connect.Request[GetDebtsRequest]) (*connect.Response[GetDebtsResponse], error) {
	return c.getDebts.CallUnary(ctx, req)
}

func (c *PeopleServiceClient) GetPersonDebts(ctx context.Context, req *connect.Request[GetPersonDebtsRequest]) (*connect.Response[GetPersonDebtsResponse], error) {
	return c.getPersonDebts.CallUnary(ctx, req)
}

func (c *PeopleServiceClient) SettleUp(ctx context.Context, req *connect.Request[SettleUpRequest]) (*connect.Response[SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}
