package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/fintrack/internal/currency"
	"github.com/mmynk/fintrack/internal/money"
)

type ConvertCmd struct {
	Amount string   `arg:"" help:"Amount to convert, e.g. 12.50."`
	From   string   `required:"" help:"Currency the amount is in."`
	To     string   `required:"" help:"Currency to convert into."`
	Base   string   `default:"USD" help:"Base currency the rates are quoted against."`
	Rate   []string `short:"r" sep:"none" placeholder:"CODE=RATE" help:"Units of CODE per one unit of the base currency. Repeatable."`
}

func (cmd *ConvertCmd) Run(out io.Writer) error {
	amount, err := money.Parse(cmd.Amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", cmd.Amount, err)
	}
	rates, err := parseRates(cmd.Rate)
	if err != nil {
		return err
	}

	table := currency.NewTable(cmd.Base, rates)
	from, to := currency.Normalize(cmd.From), currency.Normalize(cmd.To)
	converted, err := table.Convert(amount, from, to)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s %s = %s %s\n", money.Format(amount), from, money.Format(converted), to)
	return err
}

// parseRates reads CODE=RATE pairs. Later pairs for the same code win.
func parseRates(pairs []string) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal, len(pairs))
	for _, pair := range pairs {
		code, value, ok := strings.Cut(pair, "=")
		if !ok || !currency.ValidCode(currency.Normalize(code)) {
			return nil, fmt.Errorf("rate %q: want CODE=RATE", pair)
		}
		rate, err := money.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", pair, err)
		}
		rates[currency.Normalize(code)] = rate
	}
	return rates, nil
}
