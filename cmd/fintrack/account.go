package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/bobmcallan/fintrack/internal/view"
)

// --- signup ---

type signupCmd struct {
	email    string
	password string
	name     string
	remember bool
}

func (*signupCmd) Name() string     { return "signup" }
func (*signupCmd) Synopsis() string { return "create an account and sign in" }
func (*signupCmd) Usage() string {
	return `fintrack signup -email <address> [-password <pw>] [-name <display name>] [-remember]

  Creates an account. Only addresses on the configured provider domain are
  accepted. The password is prompted for when not given.
`
}

func (c *signupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email address")
	f.StringVar(&c.password, "password", "", "Password")
	f.StringVar(&c.name, "name", "", "Display name (default: the part of the email before @)")
	f.BoolVar(&c.remember, "remember", false, "Remember the email for the next login")
}

func (c *signupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return dispatch(ctx, view.Command{
		Intent:      view.IntentSignUp,
		Email:       prompt("Email", c.email),
		Password:    prompt("Password", c.password),
		DisplayName: c.name,
		Remember:    c.remember,
	}, renderDashboard)
}

// --- login ---

type loginCmd struct {
	email    string
	password string
	remember bool
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "sign in with email and password" }
func (*loginCmd) Usage() string {
	return `fintrack login [-email <address>] [-password <pw>] [-remember]

  Signs in. Without -email the most recently remembered address is used.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email address")
	f.StringVar(&c.password, "password", "", "Password")
	f.BoolVar(&c.remember, "remember", false, "Remember the email for the next login")
}

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	email := c.email
	if email == "" {
		email = lastRemembered(ctx)
		if email != "" {
			fmt.Fprintf(stderr, "Signing in as %s\n", email)
		}
	}
	return dispatch(ctx, view.Command{
		Intent:   view.IntentSignIn,
		Email:    prompt("Email", email),
		Password: prompt("Password", c.password),
		Remember: c.remember,
	}, renderDashboard)
}

// lastRemembered returns the most recently remembered email, or "".
func lastRemembered(ctx context.Context) string {
	a, err := openApp()
	if err != nil {
		return ""
	}
	defer a.Close()
	list, err := a.AccountService.RememberedLogins(ctx)
	if err != nil || len(list) == 0 {
		return ""
	}
	return list[0].Email
}

// --- google ---

type googleCmd struct {
	signup bool
}

func (*googleCmd) Name() string     { return "google" }
func (*googleCmd) Synopsis() string { return "sign in through the simulated Google provider" }
func (*googleCmd) Usage() string {
	return `fintrack google [-signup] <address>

  Signs in (or with -signup, registers) through the simulated provider. No
  password is involved; the display name is taken from the address.
`
}

func (c *googleCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.signup, "signup", false, "Register a new account instead of signing in")
}

func (c *googleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: an email address is required")
		return subcommands.ExitUsageError
	}
	intent := view.IntentProviderSignIn
	if c.signup {
		intent = view.IntentProviderSignUp
	}
	return dispatch(ctx, view.Command{Intent: intent, Email: f.Arg(0)}, renderDashboard)
}

// --- logout ---

type logoutCmd struct {
	forget bool
}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "sign out" }
func (*logoutCmd) Usage() string {
	return `fintrack logout [-forget]
`
}

func (c *logoutCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.forget, "forget", false, "Also remove the current email from the remembered logins")
}

func (c *logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.forget {
		a, err := openApp()
		if err != nil {
			return fail(err)
		}
		if sc, err := a.SessionService.Current(ctx); err == nil {
			if err := a.AccountService.Forget(ctx, sc.Account.Email); err != nil {
				a.Close()
				return fail(err)
			}
		}
		a.Close()
	}
	return dispatch(ctx, view.Command{Intent: view.IntentSignOut}, nil)
}

// --- whoami ---

type whoamiCmd struct{}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the signed-in account" }
func (*whoamiCmd) Usage() string {
	return `fintrack whoami
`
}
func (*whoamiCmd) SetFlags(*flag.FlagSet) {}

func (*whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return dispatch(ctx, view.Command{Intent: view.IntentRefresh}, renderAccount)
}
