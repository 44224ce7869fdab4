package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/money"
	"github.com/mmynk/fintrack/internal/storage"
	"github.com/mmynk/fintrack/pkg/api"
)

// ErrAlreadySettled is returned by SettleUp when nothing is owed either way.
var ErrAlreadySettled = errors.New("nothing to settle")

// PeopleService implements the PeopleService RPC interface. Debt summaries
// are derived from the stored splits on every call.
type PeopleService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewPeopleService creates a new PeopleService with the given storage backend.
func NewPeopleService(store storage.Store, logger *slog.Logger) *PeopleService {
	return &PeopleService{store: store, logger: logger}
}

func personFields(name, email, phone, notes string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("person name is required")
	}
	return &models.Person{
		Name:  name,
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
		Notes: notes,
	}, nil
}

// CreatePerson adds a person to the caller's contacts.
func (s *PeopleService) CreatePerson(ctx context.Context, req *connect.Request[api.CreatePersonRequest]) (*connect.Response[api.CreatePersonResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreatePerson request received", "user_id", ownerID, "name", req.Msg.Name)

	person, err := personFields(req.Msg.Name, req.Msg.Email, req.Msg.Phone, req.Msg.Notes)
	if err != nil {
		return nil, connectError(err)
	}
	person.OwnerID = ownerID

	if err := s.store.CreatePerson(ctx, person); err != nil {
		s.logger.Error("CreatePerson failed", "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Person created", "person_id", person.ID)
	return connect.NewResponse(&api.CreatePersonResponse{Person: toAPIPerson(person)}), nil
}

// GetPerson retrieves a person by ID.
func (s *PeopleService) GetPerson(ctx context.Context, req *connect.Request[api.GetPersonRequest]) (*connect.Response[api.GetPersonResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	person, err := s.store.GetPerson(ctx, ownerID, req.Msg.PersonID)
	if err != nil {
		s.logger.Warn("GetPerson failed", "person_id", req.Msg.PersonID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetPersonResponse{Person: toAPIPerson(person)}), nil
}

// ListPeople returns the caller's people ordered by name.
func (s *PeopleService) ListPeople(ctx context.Context, req *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	people, err := s.store.ListPeople(ctx, ownerID)
	if err != nil {
		s.logger.Error("ListPeople failed", "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Person, len(people))
	for i := range people {
		out[i] = toAPIPerson(&people[i])
	}
	s.logger.Info("ListPeople successful", "count", len(out))
	return connect.NewResponse(&api.ListPeopleResponse{People: out}), nil
}

// UpdatePerson replaces a person's name and contact fields.
func (s *PeopleService) UpdatePerson(ctx context.Context, req *connect.Request[api.UpdatePersonRequest]) (*connect.Response[api.UpdatePersonResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdatePerson request received", "person_id", req.Msg.PersonID)

	person, err := personFields(req.Msg.Name, req.Msg.Email, req.Msg.Phone, req.Msg.Notes)
	if err != nil {
		return nil, connectError(err)
	}
	person.ID = req.Msg.PersonID
	person.OwnerID = ownerID

	if err := s.store.UpdatePerson(ctx, person); err != nil {
		s.logger.Warn("UpdatePerson failed", "person_id", person.ID, "error", err)
		return nil, connectError(err)
	}

	updated, err := s.store.GetPerson(ctx, ownerID, person.ID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.UpdatePersonResponse{Person: toAPIPerson(updated)}), nil
}

// DeletePerson removes a person and their splits.
func (s *PeopleService) DeletePerson(ctx context.Context, req *connect.Request[api.DeletePersonRequest]) (*connect.Response[api.DeletePersonResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeletePerson request received", "person_id", req.Msg.PersonID)

	if err := s.store.DeletePerson(ctx, ownerID, req.Msg.PersonID); err != nil {
		s.logger.Warn("DeletePerson failed", "person_id", req.Msg.PersonID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.DeletePersonResponse{}), nil
}

// GetDebts computes the debt ledger over all of the caller's people.
func (s *PeopleService) GetDebts(ctx context.Context, req *connect.Request[api.GetDebtsRequest]) (*connect.Response[api.GetDebtsResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	people, err := s.store.ListPeople(ctx, ownerID)
	if err != nil {
		return nil, connectError(err)
	}
	txns, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{})
	if err != nil {
		return nil, connectError(err)
	}

	ledger := calculator.CalculateDebts(people, txns)
	debts := make([]*api.DebtSummary, len(people))
	for i := range people {
		debts[i] = toAPIDebt(&people[i], ledger.Summary(people[i].ID))
	}

	s.logger.Info("GetDebts successful", "people", len(people), "net_balance", ledger.NetBalance)
	return connect.NewResponse(&api.GetDebtsResponse{
		Debts:  debts,
		Totals: toAPIDebtTotals(ledger),
	}), nil
}

// GetPersonDebts returns one person's summary and the transactions shared with them.
func (s *PeopleService) GetPersonDebts(ctx context.Context, req *connect.Request[api.GetPersonDebtsRequest]) (*connect.Response[api.GetPersonDebtsResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	person, txns, err := s.personLedger(ctx, ownerID, req.Msg.PersonID)
	if err != nil {
		s.logger.Warn("GetPersonDebts failed", "person_id", req.Msg.PersonID, "error", err)
		return nil, connectError(err)
	}
	accounts, err := accountCurrencies(ctx, s.store, ownerID)
	if err != nil {
		return nil, connectError(err)
	}

	summary := calculator.CalculateDebts([]models.Person{*person}, txns).Summary(person.ID)
	out := make([]*api.Transaction, len(txns))
	for i := range txns {
		out[i] = toAPITransaction(&txns[i], accounts[txns[i].AccountID])
	}

	return connect.NewResponse(&api.GetPersonDebtsResponse{
		Person:       toAPIPerson(person),
		Debt:         toAPIDebt(person, summary),
		Transactions: out,
	}), nil
}

// SettleUp records a payment on the chosen account that brings the person's
// net balance to zero: money in when they owed the caller, money out otherwise.
func (s *PeopleService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("SettleUp request received", "person_id", req.Msg.PersonID, "account_id", req.Msg.AccountID)

	person, txns, err := s.personLedger(ctx, ownerID, req.Msg.PersonID)
	if err != nil {
		return nil, connectError(err)
	}
	account, err := s.store.GetAccount(ctx, ownerID, req.Msg.AccountID)
	if err != nil {
		return nil, connectError(err)
	}

	people := []models.Person{*person}
	net := money.ParseOrZero(calculator.CalculateDebts(people, txns).Summary(person.ID).Net)
	if net.IsZero() {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("%w with %s", ErrAlreadySettled, person.Name))
	}

	description := strings.TrimSpace(req.Msg.Description)
	if description == "" {
		description = "Settle up with " + person.Name
	}
	date := req.Msg.Date
	if date == 0 {
		date = time.Now().Unix()
	}
	settlement := &models.Transaction{
		OwnerID:     ownerID,
		AccountID:   account.ID,
		Description: description,
		Amount:      money.Format(net),
		Date:        date,
		Splits:      []models.Split{{PersonID: person.ID, Amount: money.Format(net.Neg())}},
	}
	if err := s.store.CreateTransaction(ctx, settlement); err != nil {
		s.logger.Error("SettleUp failed", "person_id", person.ID, "error", err)
		return nil, connectError(err)
	}

	summary := calculator.CalculateDebts(people, append(txns, *settlement)).Summary(person.ID)
	s.logger.Info("Settled up", "person_id", person.ID, "transaction_id", settlement.ID, "amount", settlement.Amount)
	return connect.NewResponse(&api.SettleUpResponse{
		Transaction: toAPITransaction(settlement, account.Currency),
		Debt:        toAPIDebt(person, summary),
	}), nil
}

// personLedger loads a person and every transaction with a split for them.
func (s *PeopleService) personLedger(ctx context.Context, ownerID, personID string) (*models.Person, []models.Transaction, error) {
	person, err := s.store.GetPerson(ctx, ownerID, personID)
	if err != nil {
		return nil, nil, err
	}
	txns, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{PersonID: personID})
	if err != nil {
		return nil, nil, err
	}
	return person, txns, nil
}

// accountCurrencies maps each of the owner's account IDs to its currency.
func accountCurrencies(ctx context.Context, store storage.Store, ownerID string) (map[string]string, error) {
	accounts, err := store.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(accounts))
	for _, a := range accounts {
		m[a.ID] = a.Currency
	}
	return m, nil
}
