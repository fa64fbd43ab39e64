package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
	"github.com/surycat/pkgship/service/output"
	"github.com/surycat/pkgship/service/storage"
)

func runStorageCommand(cmd string, args []string) error {
	switch cmd {
	case "db":
		return runDBCommand(args)
	case "history":
		return runHistoryCommand(args)
	default:
		return fmt.Errorf("unsupported command: %s", cmd)
	}
}

func runDBCommand(args []string) error {
	fs := pflag.NewFlagSet("db", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	olderThan := fs.Int("older-than", 90, "Purge runs older than N days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: pkgship db <vacuum|reindex|purge> [--db-path ...]")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sub := rest[0]
	switch sub {
	case "vacuum":
		return store.Vacuum(context.Background())
	case "reindex":
		return store.Reindex(context.Background())
	case "purge":
		count, err := store.PurgeOlderThan(context.Background(), *olderThan)
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d runs\n", count)
		return nil
	default:
		return fmt.Errorf("unsupported db command: %s", sub)
	}
}

func runHistoryCommand(args []string) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	pkg := fs.String("package", "", "Package name filter")
	limit := fs.Int("limit", 20, "Number of rows to list")
	format := fs.StringP("output", "o", "table", "Output format (table or json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: pkgship history <list|show>")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	outputService := output.NewService(*format)

	sub := rest[0]
	switch sub {
	case "list":
		runs, err := store.GetRecentRuns(*pkg, *limit)
		if err != nil {
			return err
		}
		return outputService.RenderHistory(runs)
	case "show":
		if len(rest) < 2 {
			return fmt.Errorf("usage: pkgship history show <run-id>")
		}
		runID, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil {
			return err
		}
		steps, err := store.GetRunSteps(runID)
		if err != nil {
			return err
		}
		return outputService.RenderSteps(steps)
	default:
		return fmt.Errorf("unsupported history command: %s", sub)
	}
}
