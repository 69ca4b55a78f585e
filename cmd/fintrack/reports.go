package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"

	"github.com/bobmcallan/fintrack/internal/app"
	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/services/report"
	"github.com/bobmcallan/fintrack/internal/view"
)

// --- export ---

type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the ledger as csv, md, html, pdf or xlsx" }
func (*exportCmd) Usage() string {
	return `fintrack export [-f <format>] [-o <file>]

  Writes a report. Without -o the file is named FinancialReport_<date>.<ext>
  in the configured reports directory. Use -o - for standard output.
  Formats: ` + strings.Join(report.NewService(common.NewSilentLogger()).Formats(), ", ") + `
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", report.FormatCSV, "Export format")
	f.StringVar(&c.output, "o", "", "Output file, or - for standard output")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runExport(ctx, strings.ToLower(c.format), c.output)
}

// runExport writes the export to a temp file next to the target and renames
// it into place, so a failed export never leaves a partial file.
func runExport(ctx context.Context, format, output string) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if output == "-" {
		if _, err := a.Controller.Dispatch(ctx, view.Command{Intent: view.IntentExport, Format: format, Output: stdout}); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	}

	if output == "" {
		output = filepath.Join(a.Config.Reports.OutputDir, report.FileName(format, time.Now()))
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fail(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), ".export-*")
	if err != nil {
		return fail(fmt.Errorf("failed to create temp file: %w", err))
	}
	tmpPath := tmp.Name()

	// CreateTemp makes the file private; reports get ordinary permissions.
	err = tmp.Chmod(0644)
	if err == nil {
		_, err = a.Controller.Dispatch(ctx, view.Command{Intent: view.IntentExport, Format: format, Output: tmp})
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpPath, output)
	}
	if err != nil {
		os.Remove(tmpPath)
		return fail(err)
	}

	fmt.Fprintf(stdout, "Wrote %s\n", output)
	return subcommands.ExitSuccess
}

// --- chart ---

type chartCmd struct {
	kind   string
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render a PNG chart" }
func (*chartCmd) Usage() string {
	return `fintrack chart [-k <expense|income|overview>] [-o <file>]

  expense and income draw a pie of the category breakdown; overview draws
  income against expenses.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "expense", "Chart to draw: expense, income or overview")
	f.StringVar(&c.output, "o", "", "Output file, or - for standard output")
}

func (c *chartCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var format string
	switch strings.ToLower(c.kind) {
	case "expense", "expenses":
		format = report.FormatExpenseChart
	case "income":
		format = report.FormatIncomeChart
	case "overview":
		format = report.FormatOverviewChart
	default:
		fmt.Fprintf(stderr, "Error: unknown chart %q\n", c.kind)
		return subcommands.ExitUsageError
	}
	return runExport(ctx, format, c.output)
}

// --- inspect ---

type inspectCmd struct{}

func (*inspectCmd) Name() string     { return "inspect" }
func (*inspectCmd) Synopsis() string { return "query the stored ledger with a JSONPath expression" }
func (*inspectCmd) Usage() string {
	return `fintrack inspect [<jsonpath>]

  Prints the part of the ledger document selected by the expression, e.g.
    fintrack inspect '$.profile'
    fintrack inspect '$.transactions[?(@.kind=="expense")].amount'
  Without an expression the whole document is printed.
`
}
func (*inspectCmd) SetFlags(*flag.FlagSet) {}

func (*inspectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	expr := "$"
	if f.NArg() > 0 {
		expr = f.Arg(0)
	}

	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	state, err := a.Controller.Dispatch(ctx, view.Command{Intent: view.IntentRefresh})
	if err != nil {
		return fail(err)
	}

	if err := inspect(stdout, state.Ledger, expr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

// inspect evaluates expr against the JSON form of doc and prints the result.
func inspect(w io.Writer, doc interface{}, expr string) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var obj interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}

	result, err := jsonpath.Get(expr, obj)
	if err != nil {
		return fmt.Errorf("evaluating %q: %w", expr, err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// --- version ---

type versionCmd struct{}

func (*versionCmd) Name() string     { return "version" }
func (*versionCmd) Synopsis() string { return "print version and storage information" }
func (*versionCmd) Usage() string {
	return `fintrack version
`
}
func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (*versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	common.LoadVersionFromFile()
	config, err := common.LoadConfig(app.ResolveConfigPath(*configPath))
	if err != nil {
		return fail(err)
	}
	common.PrintBanner(stdout, config, common.NewSilentLogger())
	return subcommands.ExitSuccess
}
