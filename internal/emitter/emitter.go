// Package emitter derives per-move board snapshot records from accepted puzzles.
package emitter

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/lightnote/puzzlerom/internal/board"
	"github.com/lightnote/puzzlerom/internal/puzzle"
	"github.com/lightnote/puzzlerom/internal/sink"
)

// Sink receives record artifacts. Writes of one puzzle are atomic as a set:
// the emitter removes every record again if the puzzle is retroactively
// rejected by the trailing piece rule.
type Sink interface {
	Write(name string, data []byte) error
	Remove(name string) error
}

// Config controls record naming and the trailing piece rule.
type Config struct {
	// ThemeTag is part of the record name, "none" when empty.
	ThemeTag string

	// LastMovePieces holds the lowercase piece letters allowed to make the
	// final move of a puzzle. A puzzle whose last moved piece is not in the
	// set has all its records rolled back.
	LastMovePieces string
}

// Record is one persisted move record.
type Record struct {
	Name        string
	Board       string // expanded board after the move, device oriented
	DeviceIndex string // "FF,TT" from/to pair
	MoveNumber  int
	TotalMoves  int
}

// Result describes the outcome of emitting one puzzle.
type Result struct {
	// Pages is the number of records persisted, the puzzle's move count for
	// an accepted puzzle and 0 for a rejected one.
	Pages int

	// Rejected is set when the trailing piece rule rolled the puzzle back.
	Rejected bool

	// Records holds the persisted records of an accepted puzzle.
	Records []Record
}

// Emitter turns puzzles into move records on a sink.
type Emitter struct {
	cfg    Config
	logger *log.Logger
	sink   Sink
}

// New creates an emitter writing to the given sink.
func New(logger *log.Logger, s Sink, cfg Config) *Emitter {
	return &Emitter{
		cfg:    cfg,
		logger: logger,
		sink:   s,
	}
}

// Emit validates and emits all moves of one puzzle. The validation pass
// applies every move against a scratch board first so that a puzzle with any
// unparseable or unapplicable move produces no output at all. The emission
// pass then replays the moves and writes one record per move, numbered from 1.
func (e *Emitter) Emit(p *puzzle.Puzzle) (Result, error) {
	if err := e.validate(p); err != nil {
		return Result{}, err
	}

	records, lastPiece, err := e.writeRecords(p)
	if err != nil {
		return Result{}, err
	}

	if !e.lastMoveAllowed(lastPiece) {
		if err := e.rollback(p); err != nil {
			return Result{}, err
		}
		e.logger.Debug("Rolled back puzzle",
			log.String("id", p.ID),
			log.String("lastPiece", string(lastPiece)))
		return Result{Rejected: true}, nil
	}

	return Result{Pages: len(p.Moves), Records: records}, nil
}

// validate applies every move to a scratch board without emitting anything.
func (e *Emitter) validate(p *puzzle.Puzzle) error {
	compact := p.Board
	for _, moveText := range p.Moves {
		m, err := board.ParseMove(moveText)
		if err != nil {
			return fmt.Errorf("puzzle %s: parsing move '%s': %w", p.ID, moveText, err)
		}
		compact, _, err = board.Apply(compact, m)
		if err != nil {
			return fmt.Errorf("puzzle %s: applying move '%s': %w", p.ID, moveText, err)
		}
	}
	return nil
}

// writeRecords replays the move sequence from the starting board and writes
// one record per move. Returns the records and the piece that made the final
// move.
func (e *Emitter) writeRecords(p *puzzle.Puzzle) ([]Record, byte, error) {
	// The device renders every board from the same side, so puzzles that
	// start with White to move are mirrored.
	mirrored := p.FirstMove == 'w'

	compact := p.Board
	records := make([]Record, 0, len(p.Moves))
	var lastPiece byte

	for i, moveText := range p.Moves {
		m, err := board.ParseMove(moveText)
		if err != nil {
			return nil, 0, fmt.Errorf("puzzle %s: parsing move '%s': %w", p.ID, moveText, err)
		}

		compact, lastPiece, err = board.Apply(compact, m)
		if err != nil {
			return nil, 0, fmt.Errorf("puzzle %s: applying move '%s': %w", p.ID, moveText, err)
		}

		oriented := compact
		if mirrored {
			oriented = board.Mirror(oriented)
		}

		index, err := board.MoveIndex(moveText, mirrored)
		if err != nil {
			return nil, 0, fmt.Errorf("puzzle %s: indexing move '%s': %w", p.ID, moveText, err)
		}

		record := Record{
			Name:        sink.RecordName(p.ID, p.Rating, e.cfg.ThemeTag, i+1),
			Board:       board.Expand(oriented),
			DeviceIndex: index,
			MoveNumber:  i + 1,
			TotalMoves:  len(p.Moves),
		}
		line := fmt.Sprintf("%s,%s,%s,%d,%d",
			p.ID, record.Board, record.DeviceIndex, record.MoveNumber, record.TotalMoves)

		if err := e.sink.Write(record.Name, []byte(line)); err != nil {
			return nil, 0, fmt.Errorf("puzzle %s: %w", p.ID, err)
		}
		records = append(records, record)
	}

	return records, lastPiece, nil
}

// rollback removes every record emitted for the puzzle.
func (e *Emitter) rollback(p *puzzle.Puzzle) error {
	for i := range p.Moves {
		name := sink.RecordName(p.ID, p.Rating, e.cfg.ThemeTag, i+1)
		if err := e.sink.Remove(name); err != nil {
			return fmt.Errorf("puzzle %s: %w", p.ID, err)
		}
	}
	return nil
}

func (e *Emitter) lastMoveAllowed(piece byte) bool {
	if e.cfg.LastMovePieces == "" {
		return true
	}
	return strings.IndexByte(strings.ToLower(e.cfg.LastMovePieces), lower(piece)) >= 0
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}
