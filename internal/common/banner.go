package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner writes the application banner with build and storage details.
func PrintBanner(w io.Writer, config *Config, logger *Logger) {
	version := GetVersion()
	build := GetBuild()
	commit := GetGitCommit()

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 60
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` _____ _       _                  _    `,
		`|  ___(_)_ __ | |_ _ __ __ _  ___| | __`,
		`| |_  | | '_ \| __| '__/ _' |/ __| |/ /`,
		`|  _| | | | | | |_| | | (_| | (__|   < `,
		`|_|   |_|_| |_|\__|_|  \__,_|\___|_|\_\`,
	}

	fmt.Fprintf(w, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(w, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s  Personal income & expense tracker%s\n\n", textColor, banner.ColorReset)
	fmt.Fprintf(w, "%s\n\n", hr)

	kvPad := 14
	kvLines := [][2]string{
		{"Version", version},
		{"Build", build},
		{"Commit", commit},
		{"Environment", config.Environment},
		{"Storage", storageDescription(config)},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(w, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s\n\n", hr)

	logger.Debug().
		Str("version", version).
		Str("build", build).
		Str("commit", commit).
		Str("environment", config.Environment).
		Str("storage", storageDescription(config)).
		Msg("Banner printed")
}

func storageDescription(config *Config) string {
	switch config.Storage.Backend {
	case BackendFile:
		return "file " + config.Storage.File.Path
	case BackendBadger:
		return "badger " + config.Storage.Badger.Path
	case BackendSurrealDB:
		return "surrealdb " + config.Storage.SurrealDB.Address
	case BackendGCS:
		return "gcs gs://" + config.Storage.GCS.Bucket + "/" + config.Storage.GCS.Prefix
	default:
		return config.Storage.Backend
	}
}
