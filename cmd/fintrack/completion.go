package main

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/services/report"
)

// completion describes the command line for shell completion. Install with
// COMP_INSTALL=1 fintrack.
func completion() *complete.Command {
	kinds := predict.Set{string(models.KindIncome), string(models.KindExpense)}
	categories := predict.Set(append(models.Categories(models.KindExpense), models.Categories(models.KindIncome)...))
	formats := predict.Set{
		report.FormatCSV, report.FormatMarkdown, report.FormatHTML, report.FormatPDF, report.FormatXLSX,
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
		},
		Sub: map[string]*complete.Command{
			"signup": {Flags: map[string]complete.Predictor{
				"email": predict.Something, "password": predict.Something,
				"name": predict.Something, "remember": predict.Nothing,
			}},
			"login": {Flags: map[string]complete.Predictor{
				"email": predict.Something, "password": predict.Something, "remember": predict.Nothing,
			}},
			"google": {Flags: map[string]complete.Predictor{"signup": predict.Nothing}},
			"logout": {Flags: map[string]complete.Predictor{"forget": predict.Nothing}},
			"whoami": {},
			"add": {
				Flags: map[string]complete.Predictor{"d": predict.Something, "c": categories},
				Args:  kinds,
			},
			"delete":    {},
			"list":      {Flags: map[string]complete.Predictor{"k": kinds, "n": predict.Something}},
			"summary":   {},
			"breakdown": {Flags: map[string]complete.Predictor{"k": kinds}},
			"settings":  {Flags: map[string]complete.Predictor{"name": predict.Something, "currency": predict.Something}},
			"reset":     {Flags: map[string]complete.Predictor{"yes": predict.Nothing}},
			"export": {Flags: map[string]complete.Predictor{
				"f": formats, "o": predict.Files("*"),
			}},
			"chart": {Flags: map[string]complete.Predictor{
				"k": predict.Set{"expense", "income", "overview"}, "o": predict.Files("*.png"),
			}},
			"inspect": {Args: predict.Set{"$", "$.profile", "$.transactions", "$.next_id"}},
			"version": {},
			"help":    {},
		},
	}
}
