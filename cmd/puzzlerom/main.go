// Package main implements a chess puzzle flash image generator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	retroapp "github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/lightnote/puzzlerom/internal/app"
	"github.com/lightnote/puzzlerom/internal/config"
	"github.com/lightnote/puzzlerom/internal/options"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := retroapp.Context()
	opts := readArguments()

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if !opts.Quiet {
		printBanner()
	}

	if err := run(ctx, logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Generation failed", log.Err(err))
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	_, err := app.New(logger, opts).Run(ctx)
	return err
}

func readArguments() options.Program {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := options.New()

	env, err := config.LoadEnv()
	if err == nil {
		if env.SinkDir != "" {
			opts.SinkDir = env.SinkDir
		}
		if env.RomFile != "" {
			opts.RomFile = env.RomFile
		}
	}

	flags.BoolVar(&opts.Verbose, "v", false, "report the skip reason of every rejected puzzle")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "only count puzzles, do not write records or the flash image")
	flags.BoolVar(&opts.NoRom, "no-rom", false, "skip generating the flash image file")
	flags.BoolVar(&opts.HeaderFromPacked, "header-from-packed", false, "image header reports packed pages instead of emitted pages")
	flags.BoolVar(&opts.Verify, "verify", false, "cross-check accepted puzzles against a rules-aware chess library")
	flags.StringVar(&opts.Parquet, "parquet", "", "name of an optional parquet report of accepted move records")
	flags.StringVar(&opts.SinkDir, "sink", opts.SinkDir, "directory receiving the per-move record files")
	flags.StringVar(&opts.RomFile, "o", opts.RomFile, "name of the output flash image file")
	flags.IntVar(&opts.MaxMoves, "max-moves", opts.MaxMoves, "maximum number of moves per puzzle")
	flags.IntVar(&opts.MinMoves, "min-moves", opts.MinMoves, "minimum number of moves per puzzle")
	flags.IntVar(&opts.MaxRating, "max-rating", opts.MaxRating, "maximum puzzle rating")
	flags.IntVar(&opts.MinRating, "min-rating", opts.MinRating, "minimum puzzle rating")
	flags.StringVar(&opts.ThemeTag, "theme-tag", "", "require this theme tag")
	flags.StringVar(&opts.ExcludePieces, "exclude-pieces", "", "skip puzzles containing any of these piece letters")
	flags.BoolVar(&opts.ScanBoardOnly, "scan-board-only", false, "scan only the board field for excluded pieces instead of the full FEN")
	flags.StringVar(&opts.LastMovePieces, "last-move-pieces", opts.LastMovePieces, "piece letters allowed to make the final move")
	flags.StringVar(&opts.FromPuzzleID, "from-puzzle-id", "", "skip puzzles with IDs lexicographically before this")
	flags.StringVar(&opts.ToPuzzleID, "to-puzzle-id", "", "skip puzzles with IDs lexicographically after this")

	err = flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) > 1 {
		printBanner()
		fmt.Printf("usage: puzzlerom [options] [corpus.csv]\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	if len(args) == 1 {
		opts.Input = args[0]
	}

	return opts
}

func printBanner() {
	fmt.Println("[-------------------------------------------]")
	fmt.Println("[ puzzlerom - chess puzzle flash image tool ]")
	fmt.Printf("[-------------------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}
