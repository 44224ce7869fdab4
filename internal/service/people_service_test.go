package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/fintrack/pkg/api"
)

func TestPersonCRUD(t *testing.T) {
	env, _ := setupTestServer(t)
	ctx := context.Background()

	created, err := env.people.CreatePerson(ctx, connect.NewRequest(&api.CreatePersonRequest{
		Name: "  Alice ", Email: "alice@example.com",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, created.Msg.Person.ID)
	assert.Equal(t, "Alice", created.Msg.Person.Name)
	assert.NotZero(t, created.Msg.Person.CreatedAt)

	_, err = env.people.CreatePerson(ctx, connect.NewRequest(&api.CreatePersonRequest{Name: "   "}))
	requireCode(t, err, connect.CodeInvalidArgument)

	got, err := env.people.GetPerson(ctx, connect.NewRequest(&api.GetPersonRequest{PersonID: created.Msg.Person.ID}))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Msg.Person.Email)

	updated, err := env.people.UpdatePerson(ctx, connect.NewRequest(&api.UpdatePersonRequest{
		PersonID: created.Msg.Person.ID, Name: "Alice B", Phone: "555-0100",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.Msg.Person.Name)
	assert.Equal(t, "555-0100", updated.Msg.Person.Phone)
	assert.Empty(t, updated.Msg.Person.Email)

	env.createPerson(t, "Bob")
	list, err := env.people.ListPeople(ctx, connect.NewRequest(&api.ListPeopleRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.People, 2)
	assert.Equal(t, "Alice B", list.Msg.People[0].Name)
	assert.Equal(t, "Bob", list.Msg.People[1].Name)

	_, err = env.people.DeletePerson(ctx, connect.NewRequest(&api.DeletePersonRequest{PersonID: created.Msg.Person.ID}))
	require.NoError(t, err)
	_, err = env.people.GetPerson(ctx, connect.NewRequest(&api.GetPersonRequest{PersonID: created.Msg.Person.ID}))
	requireCode(t, err, connect.CodeNotFound)
	_, err = env.people.DeletePerson(ctx, connect.NewRequest(&api.DeletePersonRequest{PersonID: created.Msg.Person.ID}))
	requireCode(t, err, connect.CodeNotFound)
	_, err = env.people.UpdatePerson(ctx, connect.NewRequest(&api.UpdatePersonRequest{PersonID: "missing", Name: "X"}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestGetDebts(t *testing.T) {
	env, _ := setupTestServer(t)
	ctx := context.Background()

	alice := env.createPerson(t, "Alice")
	bob := env.createPerson(t, "Bob")
	carol := env.createPerson(t, "Carol")
	account := env.createAccount(t, "Checking", "USD", "0")

	// Dinner the owner paid for: Alice owes 30, Bob owes 20.
	env.createTransaction(t, &api.CreateTransactionRequest{
		AccountID: account.ID, Description: "Dinner", Amount: "-90",
		Splits: []*api.Split{{PersonID: alice.ID, Amount: "30"}, {PersonID: bob.ID, Amount: "20"}},
	})
	// Tickets Alice paid for that were refunded to the owner: the owner owes Alice 50.
	env.createTransaction(t, &api.CreateTransactionRequest{
		AccountID: account.ID, Description: "Refund", Amount: "100",
		Splits: []*api.Split{{PersonID: alice.ID, Amount: "-50"}},
	})

	resp, err := env.people.GetDebts(ctx, connect.NewRequest(&api.GetDebtsRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Debts, 3)

	byID := map[string]*api.DebtSummary{}
	for _, d := range resp.Msg.Debts {
		byID[d.PersonID] = d
	}
	assert.Equal(t, &api.DebtSummary{
		PersonID: alice.ID, PersonName: "Alice",
		OwesMe: "30.00", IOwe: "50.00", Net: "-20.00", Settlement: "OWNER_OWES",
	}, byID[alice.ID])
	assert.Equal(t, "20.00", byID[bob.ID].Net)
	assert.Equal(t, "OWED_TO_OWNER", byID[bob.ID].Settlement)
	assert.Equal(t, "0.00", byID[carol.ID].Net)
	assert.Equal(t, "SETTLED", byID[carol.ID].Settlement)

	assert.Equal(t, &api.DebtTotals{
		TotalOwedToOwner: "50.00",
		TotalOwnerOwes:   "50.00",
		NetBalance:       "0.00",
		Settlement:       "SETTLED",
	}, resp.Msg.Totals)
}

func TestGetPersonDebts(t *testing.T) {
	env, _ := setupTestServer(t)
	ctx := context.Background()

	alice := env.createPerson(t, "Alice")
	bob := env.createPerson(t, "Bob")
	account := env.createAccount(t, "Euro", "EUR", "0")

	env.createTransaction(t, &api.CreateTransactionRequest{
		AccountID: account.ID, Description: "Groceries", Amount: "-60", Date: 100,
		Splits: []*api.Split{{PersonID: alice.ID, Amount: "20"}, {PersonID: bob.ID, Amount: "20"}},
	})
	env.createTransaction(t, &api.CreateTransactionRequest{
		AccountID: account.ID, Description: "Taxi", Amount: "-15", Date: 200,
		Splits: []*api.Split{{PersonID: bob.ID, Amount: "7.50"}},
	})
	env.createTransaction(t, &api.CreateTransactionRequest{AccountID: account.ID, Description: "Coffee", Amount: "-3"})

	resp, err := env.people.GetPersonDebts(ctx, connect.NewRequest(&api.GetPersonDebtsRequest{PersonID: bob.ID}))
	require.NoError(t, err)
	assert.Equal(t, "Bob", resp.Msg.Person.Name)
	assert.Equal(t, "27.50", resp.Msg.Debt.OwesMe)
	assert.Equal(t, "27.50", resp.Msg.Debt.Net)
	require.Len(t, resp.Msg.Transactions, 2)
	assert.Equal(t, "Taxi", resp.Msg.Transactions[0].Description)
	assert.Equal(t, "EUR", resp.Msg.Transactions[0].Currency)
	assert.Equal(t, "7.50", resp.Msg.Transactions[0].OwnerShare)
	assert.Equal(t, "Groceries", resp.Msg.Transactions[1].Description)

	_, err = env.people.GetPersonDebts(ctx, connect.NewRequest(&api.GetPersonDebtsRequest{PersonID: "missing"}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestSettleUp(t *testing.T) {
	env, _ := setupTestServer(t)
	ctx := context.Background()

	alice := env.createPerson(t, "Alice")
	bob := env.createPerson(t, "Bob")
	account := env.createAccount(t, "Checking", "USD", "100")

	env.createTransaction(t, &api.CreateTransactionRequest{
		AccountID: account.ID, Description: "Concert", Amount: "-80",
		Splits: []*api.Split{{PersonID: alice.ID, Amount: "40"}},
	})
	env.createTransaction(t, &api.CreateTransactionRequest{
		AccountID: account.ID, Description: "Bob paid rent", Amount: "30",
		Splits: []*api.Split{{PersonID: bob.ID, Amount: "-30"}},
	})

	// Alice owes the owner 40: she pays it in.
	resp, err := env.people.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{PersonID: alice.ID, AccountID: account.ID}))
	require.NoError(t, err)
	assert.Equal(t, "40.00", resp.Msg.Transaction.Amount)
	assert.Equal(t, "Settle up with Alice", resp.Msg.Transaction.Description)
	require.Len(t, resp.Msg.Transaction.Splits, 1)
	assert.Equal(t, "-40.00", resp.Msg.Transaction.Splits[0].Amount)
	assert.Equal(t, "SETTLED", resp.Msg.Debt.Settlement)
	assert.Equal(t, "0.00", resp.Msg.Debt.Net)

	// The owner owes Bob 30: money goes out.
	resp, err = env.people.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{
		PersonID: bob.ID, AccountID: account.ID, Description: "Venmo",
	}))
	require.NoError(t, err)
	assert.Equal(t, "-30.00", resp.Msg.Transaction.Amount)
	assert.Equal(t, "30.00", resp.Msg.Transaction.Splits[0].Amount)

	debts, err := env.people.GetDebts(ctx, connect.NewRequest(&api.GetDebtsRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "SETTLED", debts.Msg.Totals.Settlement)
	for _, d := range debts.Msg.Debts {
		assert.Equal(t, "0.00", d.Net, d.PersonName)
	}

	// 100 - 80 + 30 + 40 - 30
	acct, err := env.accounts.GetAccount(ctx, connect.NewRequest(&api.GetAccountRequest{AccountID: account.ID}))
	require.NoError(t, err)
	assert.Equal(t, "60.00", acct.Msg.Account.Balance)

	_, err = env.people.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{PersonID: alice.ID, AccountID: account.ID}))
	requireCode(t, err, connect.CodeFailedPrecondition)

	_, err = env.people.SettleUp(ctx, connect.NewRequest(&api.SettleUpRequest{PersonID: alice.ID, AccountID: "missing"}))
	requireCode(t, err, connect.CodeNotFound)
}
