// Package service implements the fintrack Connect services on top of the
// store, the debt calculator and the currency converter.
package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/fintrack/internal/auth"
	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/currency"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/internal/money"
	"github.com/mmynk/fintrack/internal/storage"
	"github.com/mmynk/fintrack/pkg/api"
)

// RateSource hands out the current exchange-rate snapshot for a base currency.
// It is satisfied by *rates.Cache.
type RateSource interface {
	Snapshot(base string) currency.Snapshot
	Invalidate(base string)
}

// errInvalidArgument marks validation failures in handlers.
var errInvalidArgument = errors.New("invalid argument")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidArgument, fmt.Sprintf(format, args...))
}

// owner returns the authenticated caller's user ID.
func owner(ctx context.Context) (string, error) {
	s, ok := auth.SessionFrom(ctx)
	if !ok {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return s.UserID, nil
}

// connectError maps domain errors to Connect codes. Errors that already carry
// a code pass through.
func connectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, currency.ErrMissingRate), errors.Is(err, currency.ErrInvalidRate):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, errInvalidArgument),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, calculator.ErrDuplicateSplit),
		errors.Is(err, calculator.ErrInvalidSplitAmount),
		errors.Is(err, calculator.ErrSplitsExceedAmount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// defaultCurrency returns the reporting currency of the user.
func defaultCurrency(ctx context.Context, store storage.UserStore, userID string) (string, error) {
	user, err := store.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.DefaultCurrency == "" {
		return models.DefaultCurrency, nil
	}
	return user.DefaultCurrency, nil
}

// total aggregates amounts into target through snap. While rates are not
// ready the total is zero and only the status is meaningful.
func total(snap currency.Snapshot, amounts []currency.Amount, target string) (string, error) {
	sum, err := snap.Sum(amounts, target)
	if errors.Is(err, currency.ErrRatesUnavailable) {
		return money.Format(decimal.Zero), nil
	}
	if err != nil {
		return "", err
	}
	return money.Format(sum), nil
}

func ratesStatus(snap currency.Snapshot) string {
	return string(snap.State)
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:              u.ID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		DefaultCurrency: u.DefaultCurrency,
		CreatedAt:       u.CreatedAt,
	}
}

func toAPIPerson(p *models.Person) *api.Person {
	return &api.Person{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func toAPIAccount(a *models.Account) *api.Account {
	return &api.Account{
		ID:        a.ID,
		Name:      a.Name,
		Type:      string(a.Type),
		Currency:  a.Currency,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
	}
}

func toAPICategory(c *models.Category) *api.Category {
	return &api.Category{
		ID:    c.ID,
		Name:  c.Name,
		Kind:  string(c.Kind),
		Color: c.Color,
	}
}

func toAPISplits(splits []models.Split) []*api.Split {
	if len(splits) == 0 {
		return nil
	}
	out := make([]*api.Split, len(splits))
	for i, s := range splits {
		out[i] = &api.Split{PersonID: s.PersonID, Amount: s.Amount}
	}
	return out
}

func fromAPISplits(splits []*api.Split) []models.Split {
	if len(splits) == 0 {
		return nil
	}
	out := make([]models.Split, 0, len(splits))
	for _, s := range splits {
		if s == nil {
			continue
		}
		out = append(out, models.Split{PersonID: s.PersonID, Amount: s.Amount})
	}
	return out
}

// toAPITransaction renders txn in its account's currency. The owner share is
// recomputed from the stored splits.
func toAPITransaction(txn *models.Transaction, accountCurrency string) *api.Transaction {
	share, err := calculator.ValidateSplits(txn.Amount, txn.Splits)
	if err != nil {
		share = money.ParseOrZero(txn.Amount).Abs()
	}
	return &api.Transaction{
		ID:          txn.ID,
		AccountID:   txn.AccountID,
		CategoryID:  txn.CategoryID,
		Description: txn.Description,
		Amount:      txn.Amount,
		Currency:    accountCurrency,
		Date:        txn.Date,
		Splits:      toAPISplits(txn.Splits),
		OwnerShare:  money.Format(share),
		CreatedAt:   txn.CreatedAt,
	}
}

func toAPIDebt(p *models.Person, s calculator.DebtSummary) *api.DebtSummary {
	return &api.DebtSummary{
		PersonID:   p.ID,
		PersonName: p.Name,
		OwesMe:     s.OwesMe,
		IOwe:       s.IOwe,
		Net:        s.Net,
		Settlement: string(calculator.ClassifyString(s.Net)),
	}
}

func toAPIDebtTotals(l calculator.Ledger) *api.DebtTotals {
	return &api.DebtTotals{
		TotalOwedToOwner: l.TotalOwedToOwner,
		TotalOwnerOwes:   l.TotalOwnerOwes,
		NetBalance:       l.NetBalance,
		Settlement:       string(l.Settlement()),
	}
}

// convertTransactions fills ConvertedAmount on every transaction when the
// snapshot is ready.
func convertTransactions(snap currency.Snapshot, txns []*api.Transaction, target string) error {
	if !snap.Ready() {
		return nil
	}
	for _, t := range txns {
		v, err := snap.Convert(money.ParseOrZero(t.Amount), t.Currency, target)
		if err != nil {
			return err
		}
		t.ConvertedAmount = money.Format(v)
	}
	return nil
}
