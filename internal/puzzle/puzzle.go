// Package puzzle implements the puzzle model and the acceptance filter.
package puzzle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedRecord indicates a source record that cannot be turned into a
// puzzle. Such records are skipped with a diagnostic, never fatal.
var ErrMalformedRecord = errors.New("malformed puzzle record")

// minRecordFields is the number of source fields needed: id, FEN, moves,
// rating and the theme list at index 7.
const minRecordFields = 8

// Puzzle is one corpus entry: a starting position and its forced move
// sequence plus the metadata the filter works on.
type Puzzle struct {
	ID     string
	FEN    string // full FEN tail including side to move and castling rights
	Board  string // board field only, compact form
	Moves  []string
	Rating int
	Themes []string

	// FirstMove is the side to move of the starting position, 'w' or 'b'.
	FirstMove byte
}

// ParseRecord builds a puzzle from a raw source record. Field 0 is the id,
// field 1 the FEN, field 2 the whitespace separated move list, field 3 the
// rating and field 7 a comma separated theme list.
func ParseRecord(fields []string) (*Puzzle, error) {
	if len(fields) < minRecordFields {
		return nil, fmt.Errorf("%w: got %d fields, need %d",
			ErrMalformedRecord, len(fields), minRecordFields)
	}

	fenFields := strings.Fields(fields[1])
	p := &Puzzle{
		ID:        fields[0],
		FEN:       fields[1],
		Moves:     strings.Fields(fields[2]),
		FirstMove: 'w',
	}
	if len(fenFields) > 0 {
		p.Board = fenFields[0]
	}
	if len(fenFields) > 1 && fenFields[1] != "" {
		p.FirstMove = fenFields[1][0]
	}

	rating, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, fmt.Errorf("%w: rating '%s'", ErrMalformedRecord, fields[3])
	}
	p.Rating = rating

	for _, theme := range strings.Split(fields[7], ",") {
		p.Themes = append(p.Themes, strings.ToLower(strings.TrimSpace(theme)))
	}

	return p, nil
}
