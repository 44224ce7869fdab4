package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/currency"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/money"
	"github.com/mmynk/fintrack/internal/storage"
	"github.com/mmynk/fintrack/pkg/api"
)

// ErrRatesReadOnly is returned by SetRate when rates come from an external source.
var ErrRatesReadOnly = errors.New("exchange rates are read from an external source")

// uncategorized labels spending without a category.
const uncategorized = "Uncategorized"

// DashboardService implements the DashboardService RPC interface.
type DashboardService struct {
	store     storage.Store
	rates     RateSource
	rateStore storage.RateStore
	logger    *slog.Logger
}

// NewDashboardService creates a new DashboardService. rateStore receives
// manual rates from SetRate; pass nil when rates are fetched from elsewhere.
func NewDashboardService(store storage.Store, rates RateSource, rateStore storage.RateStore, logger *slog.Logger) *DashboardService {
	return &DashboardService{store: store, rates: rates, rateStore: rateStore, logger: logger}
}

// GetDashboard reports net worth, income, expenses and spending by category in
// the caller's default currency, plus debt totals. Converted figures are zero
// until the rate table is ready; debt totals do not depend on rates.
func (s *DashboardService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.From != 0 && req.Msg.To != 0 && req.Msg.From > req.Msg.To {
		return nil, connectError(invalid("from is after to"))
	}

	target, err := defaultCurrency(ctx, s.store, ownerID)
	if err != nil {
		return nil, connectError(err)
	}
	accounts, err := s.store.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, connectError(err)
	}
	categories, err := s.store.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, connectError(err)
	}
	txns, err := s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{From: req.Msg.From, To: req.Msg.To})
	if err != nil {
		return nil, connectError(err)
	}
	people, err := s.store.ListPeople(ctx, ownerID)
	if err != nil {
		return nil, connectError(err)
	}
	// Debts cover all time regardless of the requested period.
	allTxns := txns
	if req.Msg.From != 0 || req.Msg.To != 0 {
		if allTxns, err = s.store.ListTransactions(ctx, ownerID, storage.TransactionFilter{}); err != nil {
			return nil, connectError(err)
		}
	}

	snap := s.rates.Snapshot(target)
	resp := &api.GetDashboardResponse{
		Currency:           target,
		RatesStatus:        ratesStatus(snap),
		SpendingByCategory: []*api.CategoryTotal{},
		Debts:              toAPIDebtTotals(calculator.CalculateDebts(people, allTxns)),
	}
	if err := s.fillTotals(resp, snap, accounts, categories, txns); err != nil {
		s.logger.Warn("GetDashboard conversion failed", "currency", target, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("GetDashboard successful", "user_id", ownerID, "currency", target, "rates_status", snap.State)
	return connect.NewResponse(resp), nil
}

func (s *DashboardService) fillTotals(resp *api.GetDashboardResponse, snap currency.Snapshot, accounts []models.Account, categories []models.Category, txns []models.Transaction) error {
	zero := money.Format(decimal.Zero)
	resp.NetWorth, resp.Income, resp.Expenses = zero, zero, zero
	if !snap.Ready() {
		return nil
	}
	target := resp.Currency

	balances := make([]currency.Amount, len(accounts))
	accountCurrency := make(map[string]string, len(accounts))
	for i, a := range accounts {
		balances[i] = currency.Amount{Value: money.ParseOrZero(a.Balance), Currency: a.Currency}
		accountCurrency[a.ID] = a.Currency
	}
	netWorth, err := snap.Sum(balances, target)
	if err != nil {
		return err
	}

	income, expenses := decimal.Zero, decimal.Zero
	spending := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		v, err := snap.Convert(money.ParseOrZero(txn.Amount), accountCurrency[txn.AccountID], target)
		if err != nil {
			return err
		}
		switch v.Sign() {
		case 1:
			income = income.Add(v)
		case -1:
			expenses = expenses.Add(v.Abs())
			spending[txn.CategoryID] = spending[txn.CategoryID].Add(v.Abs())
		}
	}

	resp.NetWorth = money.Format(netWorth)
	resp.Income = money.Format(income)
	resp.Expenses = money.Format(expenses)
	resp.SpendingByCategory = spendingByCategory(spending, categories)
	return nil
}

// spendingByCategory orders category totals from largest to smallest.
func spendingByCategory(spending map[string]decimal.Decimal, categories []models.Category) []*api.CategoryTotal {
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	out := make([]*api.CategoryTotal, 0, len(spending))
	for id, amount := range spending {
		t := &api.CategoryTotal{CategoryID: id, Name: uncategorized, Total: money.Format(amount)}
		if c, ok := byID[id]; ok {
			t.Name, t.Color = c.Name, c.Color
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := spending[out[i].CategoryID], spending[out[j].CategoryID]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// GetRates reports the rate table for a base currency and whether it is usable.
func (s *DashboardService) GetRates(ctx context.Context, req *connect.Request[api.GetRatesRequest]) (*connect.Response[api.GetRatesResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	base := currency.Normalize(req.Msg.Base)
	if base == "" {
		if base, err = defaultCurrency(ctx, s.store, ownerID); err != nil {
			return nil, connectError(err)
		}
	} else if !currency.ValidCode(base) {
		return nil, connectError(invalid("currency code %q", req.Msg.Base))
	}

	snap := s.rates.Snapshot(base)
	resp := &api.GetRatesResponse{Base: base, RatesStatus: ratesStatus(snap)}
	if snap.Ready() {
		resp.Rates = make(map[string]string, len(snap.Table.Rates))
		for code, rate := range snap.Table.Rates {
			resp.Rates[code] = rate.String()
		}
		resp.FetchedAt = snap.FetchedAt.Unix()
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	return connect.NewResponse(resp), nil
}

// SetRate stores a manual exchange rate and drops the cached table for its base.
func (s *DashboardService) SetRate(ctx context.Context, req *connect.Request[api.SetRateRequest]) (*connect.Response[api.SetRateResponse], error) {
	ownerID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("SetRate request received", "user_id", ownerID, "base", req.Msg.Base, "currency", req.Msg.Currency, "rate", req.Msg.Rate)

	if s.rateStore == nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, ErrRatesReadOnly)
	}
	base, code := currency.Normalize(req.Msg.Base), currency.Normalize(req.Msg.Currency)
	if !currency.ValidCode(base) || !currency.ValidCode(code) {
		return nil, connectError(invalid("currency codes %q and %q", req.Msg.Base, req.Msg.Currency))
	}
	if base == code {
		return nil, connectError(invalid("a currency has no rate against itself"))
	}
	rate, err := money.Parse(req.Msg.Rate)
	if err != nil {
		return nil, connectError(err)
	}
	if !rate.IsPositive() {
		return nil, connectError(invalid("rate must be positive, got %s", rate))
	}

	if err := s.rateStore.SetRate(ctx, base, code, rate); err != nil {
		s.logger.Error("SetRate failed", "error", err)
		return nil, connectError(err)
	}
	s.rates.Invalidate(base)
	return connect.NewResponse(&api.SetRateResponse{}), nil
}
