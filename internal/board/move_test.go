package board

import (
	"errors"
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseMove(t *testing.T) {
	t.Run("plain move", func(t *testing.T) {
		m, err := ParseMove("e2e4")

		assert.NoError(t, err)
		assert.Equal(t, 52, m.From)
		assert.Equal(t, 36, m.To)
		assert.Equal(t, byte(0), m.Promotion)
	})

	t.Run("promotion letter is carried", func(t *testing.T) {
		m, err := ParseMove("a7a8q")

		assert.NoError(t, err)
		assert.Equal(t, 8, m.From)
		assert.Equal(t, 0, m.To)
		assert.Equal(t, byte('q'), m.Promotion)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := ParseMove("e2e")

		assert.True(t, errors.Is(err, ErrMalformedMove))
	})
}

func TestApply(t *testing.T) {
	t.Run("pawn push", func(t *testing.T) {
		m, err := ParseMove("d2d4")
		assert.NoError(t, err)

		newBoard, piece, err := Apply("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR", m)

		assert.NoError(t, err)
		assert.Equal(t, "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR", newBoard)
		assert.Equal(t, byte('P'), piece)
	})

	t.Run("white promotion", func(t *testing.T) {
		m, err := ParseMove("a7a8q")
		assert.NoError(t, err)

		newBoard, piece, err := Apply("8/P7/8/8/8/8/8/8", m)

		assert.NoError(t, err)
		assert.Equal(t, "Q7/8/8/8/8/8/8/8", newBoard)
		assert.Equal(t, byte('P'), piece)
	})

	t.Run("black promotion", func(t *testing.T) {
		m, err := ParseMove("h2h1r")
		assert.NoError(t, err)

		newBoard, piece, err := Apply("8/8/8/8/8/8/7p/8", m)

		assert.NoError(t, err)
		assert.Equal(t, "8/8/8/8/8/8/8/7r", newBoard)
		assert.Equal(t, byte('p'), piece)
	})

	t.Run("sequence of moves", func(t *testing.T) {
		compact := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

		for _, step := range []struct {
			move string
			want string
		}{
			{"d2d4", "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR"},
			{"g8f6", "rnbqkb1r/pppppppp/5n2/8/3P4/8/PPP1PPPP/RNBQKBNR"},
		} {
			m, err := ParseMove(step.move)
			assert.NoError(t, err)

			compact, _, err = Apply(compact, m)
			assert.NoError(t, err)
			assert.Equal(t, step.want, compact)
		}
	})

	t.Run("inverse move restores the board", func(t *testing.T) {
		start := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
		m, err := ParseMove("g1f3")
		assert.NoError(t, err)

		moved, _, err := Apply(start, m)
		assert.NoError(t, err)

		restored, _, err := Apply(moved, Move{From: m.To, To: m.From})
		assert.NoError(t, err)
		assert.Equal(t, start, restored)
	})

	t.Run("short board is out of bounds", func(t *testing.T) {
		m, err := ParseMove("a1a2")
		assert.NoError(t, err)

		_, _, err = Apply("8/8", m)

		assert.True(t, errors.Is(err, ErrOutOfBounds))
	})
}

func TestMoveIndex(t *testing.T) {
	t.Run("device orientation", func(t *testing.T) {
		for _, tc := range []struct {
			move     string
			mirrored bool
			want     string
		}{
			{"a1a1", false, "56,56"},
			{"h8h8", false, "07,07"},
			{"e2e4", false, "52,36"},
			{"g1f3", false, "62,45"},
			{"a1a1", true, "07,07"},
			{"h8h8", true, "56,56"},
			{"e2e4", true, "11,27"},
			{"g1f3", true, "01,18"},
			{"a7a8q", false, "08,00"},
			{"h2h1r", true, "08,00"},
		} {
			got, err := MoveIndex(tc.move, tc.mirrored)

			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		}
	})

	t.Run("mirrored index is the point reflection", func(t *testing.T) {
		moves := []string{"a1h8", "e2e4", "d7d5", "h1a8"}

		for _, move := range moves {
			plain, err := MoveIndex(move, false)
			assert.NoError(t, err)
			mirrored, err := MoveIndex(move, true)
			assert.NoError(t, err)

			assert.Equal(t, reflect63(plain), mirrored)
		}
	})

	t.Run("too short", func(t *testing.T) {
		_, err := MoveIndex("e2", false)

		assert.True(t, errors.Is(err, ErrMalformedMove))
	})
}

// reflect63 maps a "FF,TT" index pair to its 63-i reflection.
func reflect63(pair string) string {
	var from, to int
	_, _ = fmt.Sscanf(pair, "%d,%d", &from, &to)
	return fmt.Sprintf("%02d,%02d", 63-from, 63-to)
}
