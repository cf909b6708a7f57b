package board

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedMove indicates a move string too short to encode two squares.
	ErrMalformedMove = errors.New("malformed move")

	// ErrOutOfBounds indicates a move referencing a square beyond the expanded
	// board, which only happens for malformed FEN input.
	ErrOutOfBounds = errors.New("square index out of bounds")
)

// Move is a parsed coordinate notation move. From and To are flat 0..63 board
// indices, Promotion is the raw promotion letter or 0. Square contents are
// never checked for legality, moves are applied mechanically.
type Move struct {
	From      int
	To        int
	Promotion byte
}

// ParseMove parses coordinate notation of the form "e2e4" or "a7a8q".
// Out of range file or rank characters are not rejected here; the resulting
// index is caught by Apply's bounds check.
func ParseMove(text string) (Move, error) {
	if len(text) < 4 {
		return Move{}, fmt.Errorf("%w: '%s'", ErrMalformedMove, text)
	}

	m := Move{
		From: squareIndex(text[0], text[1]),
		To:   squareIndex(text[2], text[3]),
	}
	if len(text) > 4 {
		m.Promotion = text[4]
	}
	return m, nil
}

// Apply applies a move to a compact board and returns the new compact board
// together with the piece that occupied the source square before the move.
// A promotion letter replaces the piece at the destination, cased to match
// the source piece, but the returned piece is always the pre-move one since
// the trailing piece filter works on what actually moved.
func Apply(compact string, m Move) (string, byte, error) {
	expanded := []byte(Expand(compact))
	if m.From < 0 || m.From >= len(expanded) || m.To < 0 || m.To >= len(expanded) {
		return "", 0, fmt.Errorf("%w: move %d-%d on board of %d squares",
			ErrOutOfBounds, m.From, m.To, len(expanded))
	}

	piece := expanded[m.From]
	placed := piece
	if m.Promotion != 0 {
		if piece >= 'A' && piece <= 'Z' {
			placed = upper(m.Promotion)
		} else {
			placed = lower(m.Promotion)
		}
	}

	expanded[m.From] = Empty
	expanded[m.To] = placed

	return Compress(string(expanded)), piece, nil
}

// MoveIndex formats the source and destination squares of a coordinate move
// as two zero padded decimal device indices. With mirrored set each index i
// becomes 63-i, the point reflection through the board center, so a puzzle
// can be shown from the side the device always renders from.
func MoveIndex(text string, mirrored bool) (string, error) {
	if len(text) < 4 {
		return "", fmt.Errorf("%w: '%s'", ErrMalformedMove, text)
	}

	from := squareIndex(text[0], text[1])
	to := squareIndex(text[2], text[3])
	if mirrored {
		from = Squares - 1 - from
		to = Squares - 1 - to
	}

	return fmt.Sprintf("%02d,%02d", from, to), nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}
