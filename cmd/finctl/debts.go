package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/gocarina/gocsv"

	"github.com/mmynk/fintrack/internal/calculator"
	"github.com/mmynk/fintrack/internal/models"
	"github.com/mmynk/fintrack/pkg/api"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	nameStyle   = lipgloss.NewStyle().Width(20)
	amountStyle = lipgloss.NewStyle().Width(12).Align(lipgloss.Right)

	settlementStyles = map[calculator.Settlement]lipgloss.Style{
		calculator.OwedToOwner: amountStyle.Foreground(lipgloss.AdaptiveColor{Light: "#00AF5F", Dark: "#00D787"}),
		calculator.OwnerOwes:   amountStyle.Foreground(lipgloss.AdaptiveColor{Light: "#D7005F", Dark: "#FF5F87"}),
		calculator.Settled:     amountStyle.Foreground(lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"}),
	}
)

type DebtsCmd struct {
	File []byte `arg:"" type:"filecontent" help:"JSON file with \"people\" and \"transactions\" arrays."`
	CSV  bool   `name:"csv" help:"Write CSV instead of a table."`
}

// export is the file layout read by the debts command. Records use the same
// JSON shapes as the API.
type export struct {
	People       []api.Person      `json:"people"`
	Transactions []api.Transaction `json:"transactions"`
}

// debtRow is one person's line in the rendered ledger.
type debtRow struct {
	PersonID   string `csv:"person_id"`
	Name       string `csv:"name"`
	OwesMe     string `csv:"owes_me"`
	IOwe       string `csv:"i_owe"`
	Net        string `csv:"net"`
	Settlement string `csv:"settlement"`
}

func (cmd *DebtsCmd) Run(out io.Writer) error {
	var data export
	if err := json.Unmarshal(cmd.File, &data); err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	people, transactions := toModels(data)
	ledger := calculator.CalculateDebts(people, transactions)
	rows := ledgerRows(people, ledger)

	if cmd.CSV {
		return gocsv.Marshal(rows, out)
	}
	return renderLedger(out, rows, ledger)
}

func toModels(data export) ([]models.Person, []models.Transaction) {
	people := make([]models.Person, 0, len(data.People))
	for _, p := range data.People {
		people = append(people, models.Person{ID: p.ID, Name: p.Name})
	}

	transactions := make([]models.Transaction, 0, len(data.Transactions))
	for _, t := range data.Transactions {
		txn := models.Transaction{ID: t.ID, Amount: t.Amount}
		for _, s := range t.Splits {
			if s == nil {
				continue
			}
			txn.Splits = append(txn.Splits, models.Split{PersonID: s.PersonID, Amount: s.Amount})
		}
		transactions = append(transactions, txn)
	}
	return people, transactions
}

// ledgerRows orders people by name, then ID.
func ledgerRows(people []models.Person, ledger calculator.Ledger) []*debtRow {
	rows := make([]*debtRow, 0, len(people))
	seen := make(map[string]bool, len(people))
	for _, p := range people {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		s := ledger.Summary(p.ID)
		rows = append(rows, &debtRow{
			PersonID:   p.ID,
			Name:       p.Name,
			OwesMe:     s.OwesMe,
			IOwe:       s.IOwe,
			Net:        s.Net,
			Settlement: string(calculator.ClassifyString(s.Net)),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].PersonID < rows[j].PersonID
	})
	return rows
}

func renderLedger(out io.Writer, rows []*debtRow, ledger calculator.Ledger) error {
	line := func(cells ...string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}

	lines := []string{headerStyle.Render(line(
		nameStyle.Render("PERSON"),
		amountStyle.Render("OWES ME"),
		amountStyle.Render("I OWE"),
		amountStyle.Render("NET"),
	))}
	for _, r := range rows {
		lines = append(lines, line(
			nameStyle.Render(r.Name),
			amountStyle.Render(r.OwesMe),
			amountStyle.Render(r.IOwe),
			settlementStyles[calculator.Settlement(r.Settlement)].Render(r.Net),
		))
	}
	lines = append(lines, headerStyle.Render(line(
		nameStyle.Render("TOTAL"),
		amountStyle.Render(ledger.TotalOwedToOwner),
		amountStyle.Render(ledger.TotalOwnerOwes),
		settlementStyles[ledger.Settlement()].Render(ledger.NetBalance),
	)))

	_, err := fmt.Fprintln(out, lipgloss.JoinVertical(lipgloss.Left, lines...))
	return err
}
