// Package verification cross-checks the mechanical move applier against a
// full chess library.
package verification

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"github.com/lightnote/puzzlerom/internal/board"
	"github.com/lightnote/puzzlerom/internal/puzzle"
)

// VerifyPuzzle replays the puzzle's move sequence twice, once through the
// mechanical applier and once through a rules-aware chess library, and
// compares the resulting board fields after every move. It reports the first
// divergence or illegal move. Verification is diagnostic only, acceptance of
// a puzzle never depends on it.
func VerifyPuzzle(p *puzzle.Puzzle) error {
	fenOpt, err := chess.FEN(p.FEN)
	if err != nil {
		return fmt.Errorf("puzzle %s: parsing FEN: %w", p.ID, err)
	}
	game := chess.NewGame(fenOpt)

	compact := p.Board
	for i, moveText := range p.Moves {
		m, err := board.ParseMove(moveText)
		if err != nil {
			return fmt.Errorf("puzzle %s: parsing move '%s': %w", p.ID, moveText, err)
		}
		compact, _, err = board.Apply(compact, m)
		if err != nil {
			return fmt.Errorf("puzzle %s: applying move '%s': %w", p.ID, moveText, err)
		}

		decoded, err := chess.UCINotation{}.Decode(game.Position(), moveText)
		if err != nil {
			return fmt.Errorf("puzzle %s: move %d '%s' is not legal: %w",
				p.ID, i+1, moveText, err)
		}
		if err := game.Move(decoded); err != nil {
			return fmt.Errorf("puzzle %s: move %d '%s' rejected: %w",
				p.ID, i+1, moveText, err)
		}

		reference := boardField(game.Position().String())
		if compact != reference {
			return fmt.Errorf("puzzle %s: board diverged after move %d '%s': got %s, want %s",
				p.ID, i+1, moveText, compact, reference)
		}
	}

	return nil
}

// boardField extracts the board part of a full FEN string.
func boardField(fen string) string {
	if idx := strings.IndexByte(fen, ' '); idx >= 0 {
		return fen[:idx]
	}
	return fen
}
