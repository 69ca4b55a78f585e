// Command fintrack is a personal income and expense tracker for the terminal.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"
)

var configPath = flag.String("config", "", "Path to fintrack.toml (default: $FINTRACK_CONFIG, then next to the binary)")

func main() {
	// Shell completion: exits when invoked by the shell.
	completion().Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range commands {
		commander.Register(c.cmd, c.group)
	}

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

type registration struct {
	cmd   subcommands.Command
	group string
}

var commands = []registration{
	{&signupCmd{}, "account"},
	{&loginCmd{}, "account"},
	{&googleCmd{}, "account"},
	{&logoutCmd{}, "account"},
	{&whoamiCmd{}, "account"},

	{&addCmd{}, "ledger"},
	{&deleteCmd{}, "ledger"},
	{&listCmd{}, "ledger"},
	{&summaryCmd{}, "ledger"},
	{&breakdownCmd{}, "ledger"},
	{&settingsCmd{}, "ledger"},
	{&resetCmd{}, "ledger"},

	{&exportCmd{}, "reports"},
	{&chartCmd{}, "reports"},
	{&inspectCmd{}, "reports"},

	{&versionCmd{}, ""},
}
