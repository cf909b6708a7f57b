package puzzle

import (
	"fmt"
	"strings"
)

// Filter is the pure acceptance predicate evaluated once per puzzle before
// any board work. The zero value accepts everything.
type Filter struct {
	MinMoves  int
	MaxMoves  int
	MinRating int
	MaxRating int

	// ThemeTag, when set, requires at least one theme containing the tag.
	ThemeTag string

	// ExcludePieces holds lowercase piece letters that must not occur
	// anywhere in the scanned FEN range.
	ExcludePieces string

	// ScanBoardOnly restricts the excluded piece scan to the board field
	// instead of the full FEN, which also contains side to move and
	// castling right letters.
	ScanBoardOnly bool

	// FromID and ToID bound the puzzle id lexicographically when non empty.
	FromID string
	ToID   string
}

// Skip reports whether the puzzle is rejected and the reason for it.
// Checks run in a fixed priority order so that the reported reason is
// deterministic: move list, move count, rating, excluded pieces, theme,
// id range.
func (f *Filter) Skip(p *Puzzle) (string, bool) {
	if len(p.Moves) == 0 {
		return "no moves", true
	}
	if f.MaxMoves > 0 && len(p.Moves) > f.MaxMoves {
		return fmt.Sprintf("move count %d > max %d", len(p.Moves), f.MaxMoves), true
	}
	if len(p.Moves) < f.MinMoves {
		return fmt.Sprintf("move count %d < min %d", len(p.Moves), f.MinMoves), true
	}
	if f.MaxRating > 0 && p.Rating > f.MaxRating {
		return fmt.Sprintf("rating %d > max %d", p.Rating, f.MaxRating), true
	}
	if p.Rating < f.MinRating {
		return fmt.Sprintf("rating %d < min %d", p.Rating, f.MinRating), true
	}
	if piece, found := f.excludedPiece(p); found {
		return fmt.Sprintf("contains excluded piece '%c'", piece), true
	}
	if f.ThemeTag != "" && !hasTheme(p.Themes, f.ThemeTag) {
		return fmt.Sprintf("missing required theme '%s' (has: %s)",
			f.ThemeTag, strings.Join(p.Themes, ", ")), true
	}
	if f.FromID != "" && p.ID < f.FromID {
		return fmt.Sprintf("ID %s < from ID %s", p.ID, f.FromID), true
	}
	if f.ToID != "" && p.ID > f.ToID {
		return fmt.Sprintf("ID %s > to ID %s", p.ID, f.ToID), true
	}

	return "", false
}

// excludedPiece scans the configured FEN range case insensitively for the
// first excluded piece letter.
func (f *Filter) excludedPiece(p *Puzzle) (byte, bool) {
	if f.ExcludePieces == "" {
		return 0, false
	}

	scan := p.FEN
	if f.ScanBoardOnly {
		scan = p.Board
	}
	scan = strings.ToLower(scan)

	for i := 0; i < len(f.ExcludePieces); i++ {
		piece := lowerByte(f.ExcludePieces[i])
		if piece < 'a' || piece > 'z' {
			continue
		}
		if strings.IndexByte(scan, piece) >= 0 {
			return piece, true
		}
	}
	return 0, false
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

func hasTheme(themes []string, tag string) bool {
	for _, theme := range themes {
		if strings.Contains(theme, tag) {
			return true
		}
	}
	return false
}
