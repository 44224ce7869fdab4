package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/fintrack/internal/currency"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/money"
	"github.com/mmynk/fintrack/internal/storage"
	"github.com/mmynk/fintrack/pkg/api"
)

// AccountService implements the AccountService RPC interface.
type AccountService struct {
	store  storage.Store
	rates  RateSource
	logger *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(store storage.Store, rates RateSource, logger *slog.Logger) *AccountService {
	return &AccountService{store: store, rates: rates, logger: logger}
}

func accountNameAndType(name, accountType string) (string, models.AccountType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", invalid("account name is required")
	}
	t := models.AccountType(strings.ToLower(strings.TrimSpace(accountType)))
	if !t.Valid() {
		return "", "", invalid("unknown account type %q", accountType)
	}
	return name, t, nil
}

// CreateAccount opens an account in a fixed currency.
func (s *AccountService) CreateAccount(ctx context.Context, req *connect.Request[api.CreateAccountRequest]) (*connect.Response[api.CreateAccountResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateAccount request received", "user_id", ownerID, "name", req.Msg.Name, "currency", req.Msg.Currency)

	name, accountType, err := accountNameAndType(req.Msg.Name, req.Msg.Type)
	if err != nil {
		return nil, connectError(err)
	}
	code := currency.Normalize(req.Msg.Currency)
	if !currency.ValidCode(code) {
		return nil, connectError(invalid("currency code %q", req.Msg.Currency))
	}
	opening := "0"
	if req.Msg.OpeningBalance != "" {
		if _, err := money.Parse(req.Msg.OpeningBalance); err != nil {
			return nil, connectError(err)
		}
		opening = req.Msg.OpeningBalance
	}

	account := &models.Account{
		OwnerID:  ownerID,
		Name:     name,
		Type:     accountType,
		Currency: code,
		Balance:  opening,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		s.logger.Error("CreateAccount failed", "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Account created", "account_id", account.ID)
	return connect.NewResponse(&api.CreateAccountResponse{Account: toAPIAccount(account)}), nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, req *connect.Request[api.GetAccountRequest]) (*connect.Response[api.GetAccountResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	account, err := s.store.GetAccount(ctx, ownerID, req.Msg.AccountID)
	if err != nil {
		s.logger.Warn("GetAccount failed", "account_id", req.Msg.AccountID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetAccountResponse{Account: toAPIAccount(account)}), nil
}

// ListAccounts returns the caller's accounts ordered by name.
func (s *AccountService) ListAccounts(ctx context.Context, req *connect.Request[api.ListAccountsRequest]) (*connect.Response[api.ListAccountsResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.store.ListAccounts(ctx, ownerID)
	if err != nil {
		s.logger.Error("ListAccounts failed", "error", err)
		return nil, connectError(err)
	}
	out := make([]*api.Account, len(accounts))
	for i := range accounts {
		out[i] = toAPIAccount(&accounts[i])
	}
	return connect.NewResponse(&api.ListAccountsResponse{Accounts: out}), nil
}

// UpdateAccount renames or retypes an account.
func (s *AccountService) UpdateAccount(ctx context.Context, req *connect.Request[api.UpdateAccountRequest]) (*connect.Response[api.UpdateAccountResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateAccount request received", "account_id", req.Msg.AccountID)

	name, accountType, err := accountNameAndType(req.Msg.Name, req.Msg.Type)
	if err != nil {
		return nil, connectError(err)
	}
	account := &models.Account{ID: req.Msg.AccountID, OwnerID: ownerID, Name: name, Type: accountType}
	if err := s.store.UpdateAccount(ctx, account); err != nil {
		s.logger.Warn("UpdateAccount failed", "account_id", account.ID, "error", err)
		return nil, connectError(err)
	}

	updated, err := s.store.GetAccount(ctx, ownerID, account.ID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.UpdateAccountResponse{Account: toAPIAccount(updated)}), nil
}

// DeleteAccount removes an account together with its transactions.
func (s *AccountService) DeleteAccount(ctx context.Context, req *connect.Request[api.DeleteAccountRequest]) (*connect.Response[api.DeleteAccountResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteAccount request received", "account_id", req.Msg.AccountID)

	if err := s.store.DeleteAccount(ctx, ownerID, req.Msg.AccountID); err != nil {
		s.logger.Warn("DeleteAccount failed", "account_id", req.Msg.AccountID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.DeleteAccountResponse{}), nil
}

// GetTotalBalance sums every account balance in the reporting currency.
// The total is zero until the rate table is ready.
func (s *AccountService) GetTotalBalance(ctx context.Context, req *connect.Request[api.GetTotalBalanceRequest]) (*connect.Response[api.GetTotalBalanceResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	target := currency.Normalize(req.Msg.Currency)
	if target == "" {
		if target, err = defaultCurrency(ctx, s.store, ownerID); err != nil {
			return nil, connectError(err)
		}
	} else if !currency.ValidCode(target) {
		return nil, connectError(invalid("currency code %q", req.Msg.Currency))
	}

	accounts, err := s.store.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, connectError(err)
	}
	amounts := make([]currency.Amount, len(accounts))
	for i, a := range accounts {
		amounts[i] = currency.Amount{Value: money.ParseOrZero(a.Balance), Currency: a.Currency}
	}

	snap := s.rates.Snapshot(target)
	sum, err := total(snap, amounts, target)
	if err != nil {
		s.logger.Warn("GetTotalBalance conversion failed", "currency", target, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetTotalBalanceResponse{
		Total:       sum,
		Currency:    target,
		RatesStatus: ratesStatus(snap),
	}), nil
}
