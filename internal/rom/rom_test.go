package rom

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type memoryStore struct {
	records map[string]string
}

func (m *memoryStore) List() ([]string, error) {
	names := make([]string, 0, len(m.records))
	for name := range m.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memoryStore) Read(name string) ([]byte, error) {
	return []byte(m.records[name]), nil
}

func TestBuild(t *testing.T) {
	t.Run("image has fixed size and header", func(t *testing.T) {
		store := &memoryStore{records: map[string]string{
			"puzzle-a-1-none-01.txt": "a,board,00,01,1,2",
			"puzzle-a-1-none-02.txt": "a,board,02,03,2,2",
		}}
		a := New(log.NewTestLogger(t), store, Options{})

		image, err := a.Build(2)

		assert.NoError(t, err)
		assert.Equal(t, FlashSize, len(image))

		header := image[MaxDataSize:]
		assert.Equal(t, uint32(0x11131719), binary.LittleEndian.Uint32(header[0:]))
		assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(header[4:]))
		assert.Equal(t, uint32(2*RowSize), binary.LittleEndian.Uint32(header[8:]))
		assert.Equal(t, byte(1), header[12])
		assert.Equal(t, byte(1), header[13])
		assert.Equal(t, byte(0), header[14])
		assert.Equal(t, byte(4), header[16])
		assert.Equal(t, byte(0), header[17])
		assert.Equal(t, uint32(RowSize), binary.LittleEndian.Uint32(header[20:]))
		assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(header[24:]))
	})

	t.Run("rows are zero padded", func(t *testing.T) {
		store := &memoryStore{records: map[string]string{
			"puzzle-a-1-none-01.txt": "short\n",
		}}
		a := New(log.NewTestLogger(t), store, Options{})

		image, err := a.Build(1)

		assert.NoError(t, err)
		assert.Equal(t, "short", string(image[:5]))
		assert.Equal(t, byte(0), image[5])
		assert.Equal(t, byte(0), image[RowSize-1])
	})

	t.Run("groups pack contiguously in sorted order", func(t *testing.T) {
		store := &memoryStore{records: map[string]string{
			"puzzle-b-1-none-01.txt": "b1",
			"puzzle-a-1-none-02.txt": "a2",
			"puzzle-a-1-none-01.txt": "a1",
		}}
		a := New(log.NewTestLogger(t), store, Options{})

		image, err := a.Build(3)

		assert.NoError(t, err)
		assert.Equal(t, "a1", string(image[0:2]))
		assert.Equal(t, "a2", string(image[RowSize:RowSize+2]))
		assert.Equal(t, "b1", string(image[2*RowSize:2*RowSize+2]))
	})

	t.Run("record too large", func(t *testing.T) {
		store := &memoryStore{records: map[string]string{
			"puzzle-a-1-none-01.txt": strings.Repeat("x", RowSize+1),
		}}
		a := New(log.NewTestLogger(t), store, Options{})

		_, err := a.Build(1)

		assert.True(t, errors.Is(err, ErrRecordTooLarge))
	})

	t.Run("record of exactly one row fits", func(t *testing.T) {
		store := &memoryStore{records: map[string]string{
			"puzzle-a-1-none-01.txt": strings.Repeat("x", RowSize),
		}}
		a := New(log.NewTestLogger(t), store, Options{})

		_, err := a.Build(1)

		assert.NoError(t, err)
	})

	t.Run("capacity cutoff excludes whole groups", func(t *testing.T) {
		// Fill the data region almost completely with one huge group, then
		// add a second group that no longer fits.
		records := map[string]string{}
		bigGroup := MaxPages - 1
		for i := 0; i < bigGroup; i++ {
			records[fmt.Sprintf("puzzle-a-1-none-%06d.txt", i)] = "a"
		}
		records["puzzle-b-1-none-01.txt"] = "b1"
		records["puzzle-b-1-none-02.txt"] = "b2"

		store := &memoryStore{records: records}
		a := New(log.NewTestLogger(t), store, Options{HeaderFromPacked: true})

		image, err := a.Build(bigGroup + 2)

		assert.NoError(t, err)
		assert.Equal(t, FlashSize, len(image))

		header := image[MaxDataSize:]
		assert.Equal(t, uint32(bigGroup), binary.LittleEndian.Uint32(header[4:]))

		// The excluded group must not appear right after the packed pages.
		assert.Equal(t, byte(0), image[bigGroup*RowSize])
	})

	t.Run("header counts default to emitted pages", func(t *testing.T) {
		store := &memoryStore{records: map[string]string{
			"puzzle-a-1-none-01.txt": "a1",
		}}
		a := New(log.NewTestLogger(t), store, Options{})

		image, err := a.Build(42)

		assert.NoError(t, err)
		header := image[MaxDataSize:]
		assert.Equal(t, uint32(42), binary.LittleEndian.Uint32(header[4:]))
		assert.Equal(t, uint32(42*RowSize), binary.LittleEndian.Uint32(header[8:]))
	})
}
