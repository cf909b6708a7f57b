// Package app provides the generation pipeline of the puzzle ROM generator.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"

	"github.com/lightnote/puzzlerom/internal/emitter"
	"github.com/lightnote/puzzlerom/internal/options"
	"github.com/lightnote/puzzlerom/internal/puzzle"
	"github.com/lightnote/puzzlerom/internal/report"
	"github.com/lightnote/puzzlerom/internal/rom"
	"github.com/lightnote/puzzlerom/internal/sink"
	"github.com/lightnote/puzzlerom/internal/source"
	"github.com/lightnote/puzzlerom/internal/verification"
)

const progressInterval = 50000

// Stats summarizes one generation run.
type Stats struct {
	Processed int // corpus records read
	Generated int // puzzles emitted
	Skipped   int // puzzles rejected by filter or trailing piece rule
	Pages     int // move records accepted
}

// App wires the pipeline stages together.
type App struct {
	logger  *log.Logger
	opts    options.Program
	filter  puzzle.Filter
	parquet []report.MoveRow
}

// New creates the application.
func New(logger *log.Logger, opts options.Program) *App {
	return &App{
		logger: logger,
		opts:   opts,
		filter: puzzle.Filter{
			MinMoves:      opts.MinMoves,
			MaxMoves:      opts.MaxMoves,
			MinRating:     opts.MinRating,
			MaxRating:     opts.MaxRating,
			ThemeTag:      opts.ThemeTag,
			ExcludePieces: opts.ExcludePieces,
			ScanBoardOnly: opts.ScanBoardOnly,
			FromID:        opts.FromPuzzleID,
			ToID:          opts.ToPuzzleID,
		},
	}
}

// Run executes the whole pipeline: read and filter the corpus, emit move
// records, assemble the flash image and write the optional parquet report.
func (a *App) Run(ctx context.Context) (Stats, error) {
	if a.opts.Verbose {
		a.logConfiguration()
	}

	input, closeInput, err := a.openInput()
	if err != nil {
		return Stats{}, err
	}
	defer closeInput()

	reader, err := source.New(input)
	if err != nil {
		return Stats{}, err
	}

	recordSink, dir, err := a.createSink()
	if err != nil {
		return Stats{}, err
	}

	emit := emitter.New(a.logger, recordSink, emitter.Config{
		ThemeTag:       a.opts.ThemeTag,
		LastMovePieces: a.opts.LastMovePieces,
	})

	stats, err := a.processCorpus(ctx, reader, emit)
	if err != nil {
		return stats, err
	}

	a.logSummary(stats)

	if !a.opts.DryRun && !a.opts.NoRom {
		if err := a.generateRom(dir, stats.Pages); err != nil {
			return stats, err
		}
	}

	if a.opts.Parquet != "" {
		if err := report.WriteMoves(a.opts.Parquet, a.parquet); err != nil {
			return stats, err
		}
		a.logger.Info("Wrote parquet report",
			log.String("file", a.opts.Parquet),
			log.Int("rows", len(a.parquet)))
	}

	return stats, nil
}

// processCorpus drives the per-puzzle pipeline. Per-puzzle failures are
// logged and counted but never abort the run; capacity exhaustion terminates
// it cleanly.
func (a *App) processCorpus(ctx context.Context, reader *source.Reader,
	emit *emitter.Emitter) (Stats, error) {

	var stats Stats

	for {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("processing corpus: %w", err)
		}

		fields, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			a.logger.Error("Skipping unreadable record", log.Err(err))
			continue
		}
		stats.Processed++
		if stats.Processed%progressInterval == 0 {
			a.logger.Info("Progress", log.Int("processed", stats.Processed))
		}

		p, err := puzzle.ParseRecord(fields)
		if err != nil {
			if a.opts.Verbose {
				a.logger.Warn("Skipping malformed record", log.Err(err))
			}
			continue
		}

		if reason, skip := a.filter.Skip(p); skip {
			stats.Skipped++
			if a.opts.Verbose {
				a.logger.Info("Skipping puzzle",
					log.String("id", p.ID),
					log.String("reason", reason))
			}
			continue
		}

		if stats.Pages+len(p.Moves) > rom.MaxPages {
			a.logger.Info("Flash capacity reached, stopping",
				log.Int("maxPages", rom.MaxPages))
			break
		}

		result, err := emit.Emit(p)
		if err != nil {
			a.logger.Error("Skipping failing puzzle",
				log.String("id", p.ID), log.Err(err))
			continue
		}
		if result.Rejected {
			stats.Skipped++
			if a.opts.Verbose {
				a.logger.Info("Skipping puzzle",
					log.String("id", p.ID),
					log.String("reason", "last moved piece not allowed"))
			}
			continue
		}

		if a.opts.Verify {
			if err := verification.VerifyPuzzle(p); err != nil {
				a.logger.Warn("Verification mismatch", log.Err(err))
			}
		}

		a.collectReport(p, result.Records)
		stats.Generated++
		stats.Pages += result.Pages
	}

	return stats, nil
}

// collectReport buffers parquet rows for the accepted puzzle.
func (a *App) collectReport(p *puzzle.Puzzle, records []emitter.Record) {
	if a.opts.Parquet == "" {
		return
	}

	theme := a.opts.ThemeTag
	if theme == "" {
		theme = "none"
	}
	for _, record := range records {
		var from, to int32
		_, _ = fmt.Sscanf(record.DeviceIndex, "%d,%d", &from, &to)

		a.parquet = append(a.parquet, report.MoveRow{
			PuzzleID:   p.ID,
			Board:      record.Board,
			FromIndex:  from,
			ToIndex:    to,
			MoveNumber: int32(record.MoveNumber),
			TotalMoves: int32(record.TotalMoves),
			Rating:     int32(p.Rating),
			Theme:      theme,
		})
	}
}

func (a *App) openInput() (io.Reader, func(), error) {
	if a.opts.Input == "" {
		return os.Stdin, func() {}, nil
	}

	file, err := os.Open(a.opts.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("opening corpus '%s': %w", a.opts.Input, err)
	}
	return file, func() { _ = file.Close() }, nil
}

// createSink returns the record sink for the emitter and, for real runs, the
// directory store the assembler reads back.
func (a *App) createSink() (emitter.Sink, *sink.Dir, error) {
	if a.opts.DryRun {
		a.logger.Info("Dry run, no records will be written")
		return sink.Discard{}, nil, nil
	}

	dir, err := sink.NewDir(a.opts.SinkDir)
	if err != nil {
		return nil, nil, err
	}
	return dir, dir, nil
}

func (a *App) generateRom(dir *sink.Dir, pages int) error {
	a.logger.Info("Generating flash image", log.String("file", a.opts.RomFile))

	assembler := rom.New(a.logger, dir, rom.Options{
		HeaderFromPacked: a.opts.HeaderFromPacked,
	})
	image, err := assembler.Build(pages)
	if err != nil {
		return fmt.Errorf("assembling flash image: %w", err)
	}

	if err := os.WriteFile(a.opts.RomFile, image, 0o644); err != nil {
		return fmt.Errorf("writing flash image '%s': %w", a.opts.RomFile, err)
	}
	return nil
}

func (a *App) logConfiguration() {
	a.logger.Info("Running with configuration",
		log.Int("minRating", a.opts.MinRating),
		log.Int("maxRating", a.opts.MaxRating),
		log.Int("minMoves", a.opts.MinMoves),
		log.Int("maxMoves", a.opts.MaxMoves),
		log.String("themeTag", a.opts.ThemeTag),
		log.String("excludePieces", a.opts.ExcludePieces),
		log.String("lastMovePieces", a.opts.LastMovePieces),
		log.String("fromPuzzleID", a.opts.FromPuzzleID),
		log.String("toPuzzleID", a.opts.ToPuzzleID),
		log.String("sinkDir", a.opts.SinkDir))
}

func (a *App) logSummary(stats Stats) {
	a.logger.Info("Summary",
		log.Int("processed", stats.Processed),
		log.Int("generated", stats.Generated),
		log.Int("skipped", stats.Skipped),
		log.Int("pages", stats.Pages),
		log.Int("kbytes", stats.Pages*rom.RowSize/1024))
}
