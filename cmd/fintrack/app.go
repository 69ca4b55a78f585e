package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/bobmcallan/fintrack/internal/app"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/view"
)

// Standard streams, swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// openApp initializes the application from the -config flag.
func openApp() (*app.App, error) {
	a, err := app.NewApp(*configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return a, nil
}

// dispatch opens the app, runs one command and renders the resulting state
// with render. A nil render prints only the notice.
func dispatch(ctx context.Context, cmd view.Command, render func(*view.State) string) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	state, err := a.Controller.Dispatch(ctx, cmd)
	if err != nil {
		return fail(err)
	}

	if render != nil {
		printMarkdown(render(state))
	} else if state.Notice != "" {
		fmt.Fprintln(stdout, state.Notice)
	}
	return subcommands.ExitSuccess
}

// fail reports err and maps it to an exit status. Input errors are usage errors.
func fail(err error) subcommands.ExitStatus {
	switch {
	case errors.Is(err, models.ErrNoSession):
		fmt.Fprintln(stderr, "Not signed in. Run 'fintrack login' or 'fintrack signup' first.")
		return subcommands.ExitFailure
	case errors.Is(err, models.ErrInvalidEmail),
		errors.Is(err, models.ErrWeakPassword),
		errors.Is(err, models.ErrInvalidTransaction),
		errors.Is(err, view.ErrConfirmationRequired):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
}

var lineReader *bufio.Reader

// prompt asks for a value on stdin when the flag was left empty.
func prompt(label, value string) string {
	if value != "" {
		return value
	}
	if lineReader == nil {
		lineReader = bufio.NewReader(stdin)
	}
	fmt.Fprintf(stderr, "%s: ", label)
	line, _ := lineReader.ReadString('\n')
	return strings.TrimSpace(line)
}
