package service

import (
	"context"
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

// TransactionService implements the TransactionService RPC interface.
type TransactionService struct {
	store  storage.Store
	rates  RateSource
	logger *slog.Logger
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store storage.Store, rates RateSource, logger *slog.Logger) *TransactionService {
	return &TransactionService{store: store, rates: rates, logger: logger}
}

// transactionInput is the editable part of a transaction as sent by clients.
type transactionInput struct {
	accountID   string
	categoryID  string
	description string
	amount      string
	date        int64
	splits      []*api.Split
}

// build validates in and returns the transaction to store with the currency
// of its account. Splits must name the owner's people, must not repeat a
// person and must not add up to more than the amount.
func (s *TransactionService) build(ctx context.Context, ownerID string, in transactionInput) (*models.Transaction, string, error) {
	amount, err := money.Parse(in.amount)
	if err != nil {
		return nil, "", err
	}
	if amount.IsZero() {
		return nil, "", invalid("amount must not be zero")
	}

	account, err := s.store.GetAccount(ctx, ownerID, in.accountID)
	if err != nil {
		return nil, "", err
	}

	if in.categoryID != "" {
		categories, err := s.store.ListCategories(ctx, ownerID)
		if err != nil {
			return nil, "", err
		}
		if !hasCategory(categories, in.categoryID) {
			return nil, "", invalid("unknown category %s", in.categoryID)
		}
	}

	splits := fromAPISplits(in.splits)
	if len(splits) > 0 {
		if _, err := calculator.ValidateSplits(in.amount, splits); err != nil {
			return nil, "", err
		}
		if err := s.checkPeople(ctx, ownerID, splits); err != nil {
			return nil, "", err
		}
	}

	date := in.date
	if date == 0 {
		date = time.Now().Unix()
	}
	return &models.Transaction{
		OwnerID:     ownerID,
		AccountID:   account.ID,
		CategoryID:  in.categoryID,
		Description: strings.TrimSpace(in.description),
		Amount:      money.Format(amount),
		Date:        date,
		Splits:      splits,
	}, account.Currency, nil
}

func (s *TransactionService) checkPeople(ctx context.Context, ownerID string, splits []models.Split) error {
	people, err := s.store.ListPeople(ctx, ownerID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(people))
	for _, p := range people {
		known[p.ID] = true
	}
	for _, sp := range splits {
		if !known[sp.PersonID] {
			return invalid("unknown person %s", sp.PersonID)
		}
	}
	return nil
}

func hasCategory(categories []models.Category, id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CreateTransaction records a transaction and updates its account balance.
func (s *TransactionService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateTransaction request received",
		"account_id", req.Msg.AccountID,
		"amount", req.Msg.Amount,
		"splits_count", len(req.Msg.Splits),
	)

	txn, accountCurrency, err := s.build(ctx, ownerID, transactionInput{
		accountID:   req.Msg.AccountID,
		categoryID:  req.Msg.CategoryID,
		description: req.Msg.Description,
		amount:      req.Msg.Amount,
		date:        req.Msg.Date,
		splits:      req.Msg.Splits,
	})
	if err != nil {
		s.logger.Warn("CreateTransaction rejected", "error", err)
		return nil, connectError(err)
	}

	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		s.logger.Error("CreateTransaction failed", "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Transaction created", "transaction_id", txn.ID)
	return connect.NewResponse(&api.CreateTransactionResponse{
		Transaction: toAPITransaction(txn, accountCurrency),
	}), nil
}

// GetTransaction retrieves a transaction, converted into the default currency
// when rates are ready.
func (s *TransactionService) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := s.store.GetTransaction(ctx, ownerID, req.Msg.TransactionID)
	if err != nil {
		s.logger.Warn("GetTransaction failed", "transaction_id", req.Msg.TransactionID, "error", err)
		return nil, connectError(err)
	}
	account, err := s.store.GetAccount(ctx, ownerID, txn.AccountID)
	if err != nil {
		return nil, connectError(err)
	}
	target, err := defaultCurrency(ctx, s.store, ownerID)
	if err != nil {
		return nil, connectError(err)
	}

	out := toAPITransaction(txn, account.Currency)
	snap := s.rates.Snapshot(target)
	if err := convertTransactions(snap, []*api.Transaction{out}, target); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetTransactionResponse{
		Transaction: out,
		RatesStatus: ratesStatus(snap),
	}), nil
}

// ListTransactions returns matching transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	txns, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{
		AccountID:  req.Msg.AccountID,
		CategoryID: req.Msg.CategoryID,
		PersonID:   req.Msg.PersonID,
		From:       req.Msg.From,
		To:         req.Msg.To,
	})
	if err != nil {
		s.logger.Error("ListTransactions failed", "error", err)
		return nil, connectError(err)
	}
	accounts, err := accountCurrencies(ctx, s.store, ownerID)
	if err != nil {
		return nil, connectError(err)
	}
	target, err := defaultCurrency(ctx, s.store, ownerID)
	if err != nil {
		return nil, connectError(err)
	}

	out := make([]*api.Transaction, len(txns))
	for i := range txns {
		out[i] = toAPITransaction(&txns[i], accounts[txns[i].AccountID])
	}
	snap := s.rates.Snapshot(target)
	if err := convertTransactions(snap, out, target); err != nil {
		s.logger.Warn("ListTransactions conversion failed", "currency", target, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("ListTransactions successful", "count", len(out), "rates_status", snap.State)
	return connect.NewResponse(&api.ListTransactionsResponse{
		Transactions: out,
		Currency:     target,
		RatesStatus:  ratesStatus(snap),
	}), nil
}

// UpdateTransaction replaces a transaction and its splits.
func (s *TransactionService) UpdateTransaction(ctx context.Context, req *connect.Request[api.UpdateTransactionRequest]) (*connect.Response[api.UpdateTransactionResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateTransaction request received", "transaction_id", req.Msg.TransactionID)

	existing, err := s.store.GetTransaction(ctx, ownerID, req.Msg.TransactionID)
	if err != nil {
		return nil, connectError(err)
	}

	txn, accountCurrency, err := s.build(ctx, ownerID, transactionInput{
		accountID:   req.Msg.AccountID,
		categoryID:  req.Msg.CategoryID,
		description: req.Msg.Description,
		amount:      req.Msg.Amount,
		date:        req.Msg.Date,
		splits:      req.Msg.Splits,
	})
	if err != nil {
		s.logger.Warn("UpdateTransaction rejected", "transaction_id", req.Msg.TransactionID, "error", err)
		return nil, connectError(err)
	}
	txn.ID = existing.ID
	txn.CreatedAt = existing.CreatedAt
	if req.Msg.Date == 0 {
		txn.Date = existing.Date
	}

	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		s.logger.Error("UpdateTransaction failed", "transaction_id", txn.ID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.UpdateTransactionResponse{
		Transaction: toAPITransaction(txn, accountCurrency),
	}), nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (s *TransactionService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteTransaction request received", "transaction_id", req.Msg.TransactionID)

	if err := s.store.DeleteTransaction(ctx, ownerID, req.Msg.TransactionID); err != nil {
		s.logger.Warn("DeleteTransaction failed", "transaction_id", req.Msg.TransactionID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

// SplitEqually previews equal shares of an amount among people.
func (s *TransactionService) SplitEqually(ctx context.Context, req *connect.Request[api.SplitEquallyRequest]) (*connect.Response[api.SplitEquallyResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := money.Parse(req.Msg.Amount)
	if err != nil {
		return nil, connectError(err)
	}
	splits, err := calculator.SplitEqually(amount, req.Msg.PersonIDs, req.Msg.IncludeOwner)
	if err != nil {
		return nil, connectError(err)
	}
	if err := s.checkPeople(ctx, ownerID, splits); err != nil {
		return nil, connectError(err)
	}
	share, err := calculator.ValidateSplits(req.Msg.Amount, splits)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.SplitEquallyResponse{
		Splits:     toAPISplits(splits),
		OwnerShare: money.Format(share),
	}), nil
}

// CreateCategory adds an income or expense category.
func (s *TransactionService) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateCategory request received", "name", req.Msg.Name, "kind", req.Msg.Kind)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connectError(invalid("category name is required"))
	}
	kind := models.CategoryKind(strings.ToLower(strings.TrimSpace(req.Msg.Kind)))
	if kind != models.CategoryIncome && kind != models.CategoryExpense {
		return nil, connectError(invalid("unknown category kind %q", req.Msg.Kind))
	}

	category := &models.Category{OwnerID: ownerID, Name: name, Kind: kind, Color: req.Msg.Color}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		s.logger.Error("CreateCategory failed", "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.CreateCategoryResponse{Category: toAPICategory(category)}), nil
}

// ListCategories returns the caller's categories.
func (s *TransactionService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, connectError(err)
	}
	out := make([]*api.Category, len(categories))
	for i := range categories {
		out[i] = toAPICategory(&categories[i])
	}
	return connect.NewResponse(&api.ListCategoriesResponse{Categories: out}), nil
}

// DeleteCategory removes a category; its transactions become uncategorized.
func (s *TransactionService) DeleteCategory(ctx context.Context, req *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteCategory request received", "category_id", req.Msg.CategoryID)

	if err := s.store.DeleteCategory(ctx, ownerID, req.Msg.CategoryID); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.DeleteCategoryResponse{}), nil
}
