package verification

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/lightnote/puzzlerom/internal/puzzle"
)

func TestVerifyPuzzle(t *testing.T) {
	t.Run("simple sequence matches reference", func(t *testing.T) {
		p := &puzzle.Puzzle{
			ID:        "ok",
			FEN:       "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			Board:     "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
			Moves:     []string{"e2e4", "e7e5", "g1f3"},
			FirstMove: 'w',
		}

		assert.NoError(t, VerifyPuzzle(p))
	})

	t.Run("illegal move is reported", func(t *testing.T) {
		p := &puzzle.Puzzle{
			ID:        "illegal",
			FEN:       "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			Board:     "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
			Moves:     []string{"e2e5"},
			FirstMove: 'w',
		}

		assert.Error(t, VerifyPuzzle(p))
	})

	t.Run("castling diverges from the mechanical applier", func(t *testing.T) {
		// The mechanical applier moves only the king, the reference library
		// also moves the rook, so the boards must differ after castling.
		p := &puzzle.Puzzle{
			ID:        "castle",
			FEN:       "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1",
			Board:     "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R",
			Moves:     []string{"e1g1"},
			FirstMove: 'w',
		}

		assert.Error(t, VerifyPuzzle(p))
	})

	t.Run("invalid FEN is reported", func(t *testing.T) {
		p := &puzzle.Puzzle{
			ID:    "badfen",
			FEN:   "not a fen",
			Board: "not",
			Moves: []string{"e2e4"},
		}

		assert.Error(t, VerifyPuzzle(p))
	})
}
