// Command finctl converts amounts and prints debt ledgers offline, without a
// running server.
//
//	finctl convert 100 --from EUR --to GBP --base USD --rate EUR=0.9 --rate GBP=0.8
//	finctl debts export.json
//	finctl debts export.json --csv > debts.csv
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

var (
	// Version is set via ldflags when building.
	Version = ""

	// CommitSHA is set via ldflags when building.
	CommitSHA = ""
)

type CLI struct {
	Convert ConvertCmd `cmd:"" help:"Convert an amount between two currencies using a rate table."`
	Debts   DebtsCmd   `cmd:"" help:"Print the debt ledger for an exported people and transactions file."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("finctl"),
		kong.Description("Offline tools for fintrack data."),
		kong.UsageOnError(),
		kong.BindTo(io.Writer(os.Stdout), (*io.Writer)(nil)),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

type VersionCmd struct{}

func (cmd *VersionCmd) Run(out io.Writer) error {
	_, err := fmt.Fprintf(out, "finctl %s\n", buildVersion())
	return err
}

func buildVersion() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if CommitSHA == "" {
		return v
	}
	return fmt.Sprintf("%s (%s)", v, CommitSHA)
}
