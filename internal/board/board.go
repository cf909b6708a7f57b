// Package board implements the FEN-like board codec and mechanical move application.
package board

import (
	"strconv"
	"strings"
)

// Squares is the number of squares of an expanded board string.
const Squares = 64

const ranks = 8

// Empty marks an unoccupied square in the expanded form.
const Empty = '1'

// Expand unrolls a compact rank/file board string into its 64 character form.
// Digits expand to runs of '1', rank separators are dropped and the result is
// truncated to 64 characters to guard against malformed run counts. Expand
// never fails; a board built from malformed input can end up shorter than 64
// characters and is caught later as an out of bounds error when indexed.
func Expand(compact string) string {
	var expanded strings.Builder
	expanded.Grow(Squares)

	for _, c := range compact {
		switch {
		case c >= '1' && c <= '8':
			for i := 0; i < int(c-'0'); i++ {
				expanded.WriteByte(Empty)
			}
		case c == '/':
		default:
			expanded.WriteRune(c)
		}
	}

	s := expanded.String()
	if len(s) > Squares {
		s = s[:Squares]
	}
	return s
}

// Compress converts a 64 character board back into compact form, inserting a
// rank separator every 8 characters and collapsing runs of empty squares into
// their decimal count. It is the exact inverse of Expand for boards whose
// empty runs do not exceed 8 per rank.
func Compress(expanded string) string {
	var compressed strings.Builder
	compressed.Grow(len(expanded) + ranks)

	run := 0
	flush := func() {
		if run > 0 {
			compressed.WriteString(strconv.Itoa(run))
			run = 0
		}
	}

	for i := 0; i < len(expanded); i++ {
		if i%ranks == 0 && i != 0 {
			flush()
			compressed.WriteByte('/')
		}
		if expanded[i] == Empty {
			run++
			continue
		}
		flush()
		compressed.WriteByte(expanded[i])
	}
	flush()

	return compressed.String()
}

// Mirror point-reflects a compact board through its center by reversing the
// rank order and the character order within each rank. It presents the
// position from the opposite side's viewpoint and is its own inverse.
func Mirror(compact string) string {
	mirrored := strings.Split(compact, "/")
	for i, j := 0, len(mirrored)-1; i < j; i, j = i+1, j-1 {
		mirrored[i], mirrored[j] = mirrored[j], mirrored[i]
	}
	for i, rank := range mirrored {
		mirrored[i] = reverse(rank)
	}
	return strings.Join(mirrored, "/")
}

// squareIndex maps a file letter and rank digit to the flat 0..63 index of
// the expanded board, rank 8 first. Shared by move parsing and device index
// computation so the two cannot drift apart.
func squareIndex(file, rank byte) int {
	return (ranks-int(rank-'0'))*ranks + int(file-'a')
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
