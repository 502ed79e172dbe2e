// Command chronicle drives the deterministic historical world simulator:
// generate runs a fresh history from a seed, replay runs the same seed
// twice and checks that the two event logs and entity counts match. The
// dump files are not compared byte for byte. It is a single-binary,
// flag-parsing, signal-handling batch job: a run executes a fixed
// number of years to completion and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/kaelhaven/chronicle/internal/config"
	"github.com/kaelhaven/chronicle/internal/kernel"
	"github.com/kaelhaven/chronicle/internal/persistence"
	"github.com/kaelhaven/chronicle/internal/runtime"
	"github.com/kaelhaven/chronicle/internal/worldgen"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(ctx, os.Args[2:])
	case "replay":
		err = runReplay(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		slog.Error("run aborted", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: chronicle generate --seed N --years Y [--out DIR]")
	fmt.Fprintln(os.Stderr, "       chronicle replay --seed N --years Y")
}

func parseRunFlags(name string, args []string) (config.Config, string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg := config.Default()
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "run seed")
	fs.IntVar(&cfg.Years, "years", cfg.Years, "number of simulated years")
	fs.IntVar(&cfg.MapRadius, "map-radius", cfg.MapRadius, "hex grid radius for world generation")
	out := fs.String("out", "", "output directory for persisted artifacts (generate only)")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, "", err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", err
	}
	return cfg, *out, nil
}

// runOnce builds a fresh world from cfg and advances it to completion,
// returning the populated kernel.World.
func runOnce(ctx context.Context, cfg config.Config) *kernel.World {
	w := worldgen.Generate(cfg)
	sched, _ := runtime.Build(w)

	totalTicks := cfg.Years * 12
	for i := 0; i < totalTicks; i++ {
		select {
		case <-ctx.Done():
			slog.Warn("run interrupted before completion", "ticks_completed", i, "ticks_total", totalTicks)
			return w
		default:
		}
		sched.Tick()
	}
	return w
}

func runGenerate(ctx context.Context, args []string) error {
	cfg, out, err := parseRunFlags("generate", args)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	slog.Info("starting generate run", "run_id", runID, "seed", cfg.Seed, "years", cfg.Years)

	w := runOnce(ctx, cfg)

	slog.Info("run complete",
		"run_id", runID,
		"events", humanize.Comma(int64(len(w.Log.Events()))),
		"entities", humanize.Comma(int64(w.Store.Len())),
		"final_time", w.Clock.Now().String(),
	)

	if out == "" {
		return nil
	}
	runDir := fmt.Sprintf("%s/%s", out, runID)
	if err := persistence.WriteJSONL(w, runDir); err != nil {
		return fmt.Errorf("persist jsonl: %w", err)
	}
	if err := persistence.WriteColumnar(w, runDir); err != nil {
		return fmt.Errorf("persist columnar: %w", err)
	}
	slog.Info("wrote run artifacts", "dir", runDir)
	return nil
}

// runReplay runs the same seed twice and asserts, via assertIdentical,
// that every event's kind, timestamp and description and the final
// entity count match. Relationships, change records and entity
// attributes are not compared.
func runReplay(ctx context.Context, args []string) error {
	cfg, _, err := parseRunFlags("replay", args)
	if err != nil {
		return err
	}

	slog.Info("replaying run", "seed", cfg.Seed, "years", cfg.Years)
	first := runOnce(ctx, cfg)
	second := runOnce(ctx, cfg)

	if err := assertIdentical(first, second); err != nil {
		return fmt.Errorf("replay mismatch: %w", err)
	}
	slog.Info("replay verified: identical event logs and entity counts", "events", len(first.Log.Events()))
	return nil
}

// assertIdentical compares two worlds' event logs and final entity
// counts.
func assertIdentical(a, b *kernel.World) error {
	aEvents, bEvents := a.Log.Events(), b.Log.Events()
	if len(aEvents) != len(bEvents) {
		return fmt.Errorf("event count differs: %d vs %d", len(aEvents), len(bEvents))
	}
	for i := range aEvents {
		if aEvents[i].Kind.String() != bEvents[i].Kind.String() ||
			aEvents[i].Timestamp != bEvents[i].Timestamp ||
			aEvents[i].Description != bEvents[i].Description {
			return fmt.Errorf("event %d differs", i)
		}
	}
	if a.Store.Len() != b.Store.Len() {
		return fmt.Errorf("entity count differs: %d vs %d", a.Store.Len(), b.Store.Len())
	}
	return nil
}
