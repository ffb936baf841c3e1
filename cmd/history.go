package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"

	"github.com/warpdl/lightsout/cmd/common"
	"github.com/warpdl/lightsout/internal/journal"
	"github.com/warpdl/lightsout/pkg/logger"
)

func history(ctx *cli.Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}
	j, err := journal.Open(env.paths.Journal, logger.NewNopLogger())
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "open_journal", err)
		return nil
	}
	defer j.Close()

	if id := ctx.Args().First(); id != "" {
		events, err := j.Events(context.Background(), id)
		if errors.Is(err, journal.ErrNotFound) {
			fmt.Printf("lightsout: no run with id %s\n", id)
			return nil
		}
		if err != nil {
			common.PrintRuntimeErr(ctx, "history", "get_events", err)
			return nil
		}
		printEvents(os.Stdout, id, events)
		return nil
	}

	runs, err := j.History(context.Background(), ctx.Int("limit"))
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "get_history", err)
		return nil
	}
	if !env.cfg.Journal {
		fmt.Println("Note: the run journal is disabled in config.yml.")
	}
	printHistory(os.Stdout, runs, time.Now())
	return nil
}

func printHistory(w io.Writer, runs []journal.Summary, now time.Time) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "lightsout: no runs recorded yet")
		return
	}
	txt := "Recent curfew runs:"
	txt += "\n\n-------------------------------------------------------------------------------"
	txt += "\n|    Day     |     Started     |   Outcome   | Events | Run ID"
	txt += "\n|------------|-----------------|-------------|--------|-------------------------"
	for _, r := range runs {
		txt += fmt.Sprintf("\n| %s | %s | %s | %s | %s",
			r.Day,
			common.Beaut(humanize.RelTime(r.StartedAt, now, "ago", "from now"), 15),
			common.Beaut(r.Outcome, 11),
			common.Beaut(fmt.Sprint(r.Events), 6),
			r.ID,
		)
	}
	txt += "\n-------------------------------------------------------------------------------"
	fmt.Fprintln(w, txt)
}

func printEvents(w io.Writer, id string, events []journal.Event) {
	fmt.Fprintf(w, "Run %s:\n\n", id)
	if len(events) == 0 {
		fmt.Fprintln(w, "  no events")
		return
	}
	for _, e := range events {
		line := fmt.Sprintf("  %s  %-16s", e.At.Format("2006-01-02 15:04:05"), e.Kind)
		if e.Detail != "" {
			line += "  " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}
