package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/fintrack/internal/currency"
	"github.com/mmynk/fintrack/pkg/api"
)

func balance(t *testing.T, env *testEnv, accountID string) string {
	t.Helper()
	resp, err := env.accounts.GetAccount(context.Background(), connect.NewRequest(&api.GetAccountRequest{AccountID: accountID}))
	require.NoError(t, err)
	return resp.Msg.Account.Balance
}

func TestTransactionLifecycle(t *testing.T) {
	env, _ := setupTestServer(t)
	ctx := context.Background()

	alice := env.createPerson(t, "Alice")
	bob := env.createPerson(t, "Bob")
	checking := env.createAccount(t, "Checking", "USD", "1000")
	euro := env.createAccount(t, "Euro", "EUR", "0")

	txn := env.createTransaction(t, &api.CreateTransactionRequest{
		AccountID: checking.ID, Description: " Groceries ", Amount: "-100", Date: 1700000000,
		Splits: []*api.Split{{PersonID: alice.ID, Amount: "40"}, {PersonID: bob.ID, Amount: "30"}},
	})
	assert.Equal(t, "Groceries", txn.Description)
	assert.Equal(t, "-100.00", txn.Amount)
	assert.Equal(t, "USD", txn.Currency)
	assert.Equal(t, "30.00", txn.OwnerShare)
	assert.Equal(t, "900.00", balance(t, env, checking.ID))

	got, err := env.transactions.GetTransaction(ctx, connect.NewRequest(&api.GetTransactionRequest{TransactionID: txn.ID}))
	require.NoError(t, err)
	assert.Equal(t, "-100.00", got.Msg.Transaction.ConvertedAmount)
	assert.Equal(t, api.RatesReady, got.Msg.RatesStatus)
	require.Len(t, got.Msg.Transaction.Splits, 2)

	// Move it to the euro account with a single split.
	updated, err := env.transactions.UpdateTransaction(ctx, connect.NewRequest(&api.UpdateTransactionRequest{
		TransactionID: txn.ID, AccountID: euro.ID, Description: "Groceries", Amount: "-45",
		Splits: []*api.Split{{PersonID: bob.ID, Amount: "15"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, "EUR", updated.Msg.Transaction.Currency)
	assert.Equal(t, int64(1700000000), updated.Msg.Transaction.Date)
	assert.Equal(t, "1000.00", balance(t, env, checking.ID))
	assert.Equal(t, "-45.00", balance(t, env, euro.ID))

	got, err = env.transactions.GetTransaction(ctx, connect.NewRequest(&api.GetTransactionRequest{TransactionID: txn.ID}))
	require.NoError(t, err)
	assert.Equal(t, "-50.00", got.Msg.Transaction.ConvertedAmount)
	require.Len(t, got.Msg.Transaction.Splits, 1)
	assert.Equal(t, bob.ID, got.Msg.Transaction.Splits[0].PersonID)

	_, err = env.transactions.DeleteTransaction(ctx, connect.NewRequest(&api.DeleteTransactionRequest{TransactionID: txn.ID}))
	require.NoError(t, err)
	assert.Equal(t, "0.00", balance(t, env, euro.ID))
	_, err = env.transactions.GetTransaction(ctx, connect.NewRequest(&api.GetTransactionRequest{TransactionID: txn.ID}))
	requireCode(t, err, connect.CodeNotFound)
	_, err = env.transactions.DeleteTransaction(ctx, connect.NewRequest(&api.DeleteTransactionRequest{TransactionID: txn.ID}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestCreateTransactionValidation(t *testing.T) {
	env, _ := setupTestServer(t)
	ctx := context.Background()

	alice := env.createPerson(t, "Alice")
	account := env.createAccount(t, "Checking", "USD", "0")

	tests := []struct {
		name string
		req  *api.CreateTransactionRequest
		code connect.Code
	}{
		{"malformed amount", &api.CreateTransactionRequest{AccountID: account.ID, Amount: "12.3.4"}, connect.CodeInvalidArgument},
		{"zero amount", &api.CreateTransactionRequest{AccountID: account.ID, Amount: "0"}, connect.CodeInvalidArgument},
		{"unknown account", &api.CreateTransactionRequest{AccountID: "missing", Amount: "-5"}, connect.CodeNotFound},
		{"unknown category", &api.CreateTransactionRequest{AccountID: account.ID, Amount: "-5", CategoryID: "missing"}, connect.CodeInvalidArgument},
		{"splits exceed amount", &api.CreateTransactionRequest{
			AccountID: account.ID, Amount: "-10",
			Splits: []*api.Split{{PersonID: alice.ID, Amount: "10.01"}},
		}, connect.CodeInvalidArgument},
		{"duplicate person", &api.CreateTransactionRequest{
			AccountID: account.ID, Amount: "-10",
			Splits: []*api.Split{{PersonID: alice.ID, Amount: "2"}, {PersonID: alice.ID, Amount: "3"}},
		}, connect.CodeInvalidArgument},
		{"unknown person", &api.CreateTransactionRequest{
			AccountID: account.ID, Amount: "-10",
			Splits: []*api.Split{{PersonID: "stranger", Amount: "5"}},
		}, connect.CodeInvalidArgument},
		{"malformed split", &api.CreateTransactionRequest{
			AccountID: account.ID, Amount: "-10",
			Splits: []*api.Split{{PersonID: alice.ID, Amount: "five"}},
		}, connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.transactions.CreateTransaction(ctx, connect.NewRequest(tt.req))
			requireCode(t, err, tt.code)
		})
	}
	assert.Equal(t, "0.00", balance(t, env, account.ID))
}

func TestListTransactions(t *testing.T) {
	env, rates := setupTestServer(t)
	ctx := context.Background()

	alice := env.createPerson(t, "Alice")
	checking := env.createAccount(t, "Checking", "USD", "0")
	euro := env.createAccount(t, "Euro", "EUR", "0")
	food, err := env.transactions.CreateCategory(ctx, connect.NewRequest(&api.CreateCategoryRequest{Name: "Food", Kind: "expense"}))
	require.NoError(t, err)

	env.createTransaction(t, &api.CreateTransactionRequest{AccountID: checking.ID, Amount: "2500", Date: 100, Description: "Salary"})
	env.createTransaction(t, &api.CreateTransactionRequest{
		AccountID: euro.ID, Amount: "-18", Date: 200, Description: "Lunch", CategoryID: food.Msg.Category.ID,
		Splits: []*api.Split{{PersonID: alice.ID, Amount: "9"}},
	})
	env.createTransaction(t, &api.CreateTransactionRequest{AccountID: checking.ID, Amount: "-40", Date: 300, Description: "Fuel"})

	list, err := env.transactions.ListTransactions(ctx, connect.NewRequest(&api.ListTransactionsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Transactions, 3)
	assert.Equal(t, "USD", list.Msg.Currency)
	assert.Equal(t, api.RatesReady, list.Msg.RatesStatus)
	assert.Equal(t, []string{"Fuel", "Lunch", "Salary"}, descriptions(list.Msg.Transactions))
	assert.Equal(t, "-20.00", list.Msg.Transactions[1].ConvertedAmount)
	assert.Equal(t, "2500.00", list.Msg.Transactions[2].ConvertedAmount)

	tests := []struct {
		name string
		req  *api.ListTransactionsRequest
		want []string
	}{
		{"by account", &api.ListTransactionsRequest{AccountID: checking.ID}, []string{"Fuel", "Salary"}},
		{"by category", &api.ListTransactionsRequest{CategoryID: food.Msg.Category.ID}, []string{"Lunch"}},
		{"by person", &api.ListTransactionsRequest{PersonID: alice.ID}, []string{"Lunch"}},
		{"by date", &api.ListTransactionsRequest{From: 150, To: 300}, []string{"Fuel", "Lunch"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.transactions.ListTransactions(ctx, connect.NewRequest(tt.req))
			require.NoError(t, err)
			assert.Equal(t, tt.want, descriptions(resp.Msg.Transactions))
		})
	}

	// Without rates the list still loads, unconverted.
	rates.set(currency.Snapshot{State: currency.StateLoading})
	list, err = env.transactions.ListTransactions(ctx, connect.NewRequest(&api.ListTransactionsRequest{}))
	require.NoError(t, err)
	assert.Equal(t, api.RatesLoading, list.Msg.RatesStatus)
	for _, txn := range list.Msg.Transactions {
		assert.Empty(t, txn.ConvertedAmount)
	}
}

func descriptions(txns []*api.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.Description
	}
	return out
}

func TestSplitEqually(t *testing.T) {
	env, _ := setupTestServer(t)
	ctx := context.Background()

	alice := env.createPerson(t, "Alice")
	bob := env.createPerson(t, "Bob")

	resp, err := env.transactions.SplitEqually(ctx, connect.NewRequest(&api.SplitEquallyRequest{
		Amount: "-100", PersonIDs: []string{alice.ID, bob.ID}, IncludeOwner: true,
	}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Splits, 2)
	assert.Equal(t, "33.34", resp.Msg.Splits[0].Amount)
	assert.Equal(t, "33.33", resp.Msg.Splits[1].Amount)
	assert.Equal(t, "33.33", resp.Msg.OwnerShare)

	// the preview validates against the amount as it will be stored
	resp, err = env.transactions.SplitEqually(ctx, connect.NewRequest(&api.SplitEquallyRequest{
		Amount: "10.005", PersonIDs: []string{alice.ID},
	}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Splits, 1)
	assert.Equal(t, "-10.01", resp.Msg.Splits[0].Amount)
	assert.Equal(t, "0.00", resp.Msg.OwnerShare)

	_, err = env.transactions.SplitEqually(ctx, connect.NewRequest(&api.SplitEquallyRequest{Amount: "-100"}))
	requireCode(t, err, connect.CodeInvalidArgument)

	_, err = env.transactions.SplitEqually(ctx, connect.NewRequest(&api.SplitEquallyRequest{
		Amount: "-100", PersonIDs: []string{"stranger"},
	}))
	requireCode(t, err, connect.CodeInvalidArgument)
}

func TestCategories(t *testing.T) {
	env, _ := setupTestServer(t)
	ctx := context.Background()

	salary, err := env.transactions.CreateCategory(ctx, connect.NewRequest(&api.CreateCategoryRequest{Name: "Salary", Kind: "Income", Color: "#0a0"}))
	require.NoError(t, err)
	assert.Equal(t, "income", salary.Msg.Category.Kind)

	rent, err := env.transactions.CreateCategory(ctx, connect.NewRequest(&api.CreateCategoryRequest{Name: "Rent", Kind: "expense"}))
	require.NoError(t, err)

	_, err = env.transactions.CreateCategory(ctx, connect.NewRequest(&api.CreateCategoryRequest{Name: "Odd", Kind: "transfer"}))
	requireCode(t, err, connect.CodeInvalidArgument)

	list, err := env.transactions.ListCategories(ctx, connect.NewRequest(&api.ListCategoriesRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Categories, 2)

	account := env.createAccount(t, "Checking", "USD", "0")
	txn := env.createTransaction(t, &api.CreateTransactionRequest{AccountID: account.ID, Amount: "-900", CategoryID: rent.Msg.Category.ID})

	_, err = env.transactions.DeleteCategory(ctx, connect.NewRequest(&api.DeleteCategoryRequest{CategoryID: rent.Msg.Category.ID}))
	require.NoError(t, err)

	got, err := env.transactions.GetTransaction(ctx, connect.NewRequest(&api.GetTransactionRequest{TransactionID: txn.ID}))
	require.NoError(t, err)
	assert.Empty(t, got.Msg.Transaction.CategoryID)

	_, err = env.transactions.DeleteCategory(ctx, connect.NewRequest(&api.DeleteCategoryRequest{CategoryID: rent.Msg.Category.ID}))
	requireCode(t, err, connect.CodeNotFound)
}
