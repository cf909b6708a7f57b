// Package rom assembles move records into the fixed-capacity flash image.
package rom

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/lightnote/puzzlerom/internal/sink"
)

const (
	// RowSize is the fixed byte width of one record row, one per move.
	RowSize = 96

	// FlashSize is the total size of the flash image.
	FlashSize = 16 * 1024 * 1024

	// ConfigSectorSize is the size of the configuration sector at the end
	// of the flash.
	ConfigSectorSize = 0x1000

	// MaxDataSize is the capacity of the data region preceding the
	// configuration sector.
	MaxDataSize = FlashSize - ConfigSectorSize

	// MaxPages is the number of record rows the data region can hold.
	MaxPages = MaxDataSize / RowSize

	// magic identifies a puzzle flash image.
	magic = 0x11131719

	// contentTypeChessPuzzle is the device content type of chess puzzle rows.
	contentTypeChessPuzzle = 0x04
)

// ErrRecordTooLarge indicates a record artifact that does not fit one row.
var ErrRecordTooLarge = errors.New("record exceeds row size")

// Store provides the persisted record artifacts in stable sorted order.
type Store interface {
	List() ([]string, error)
	Read(name string) ([]byte, error)
}

// Options controls image assembly.
type Options struct {
	// HeaderFromPacked makes the configuration sector report the pages
	// actually packed into the data region instead of the page total
	// accepted during emission. The two disagree when the capacity cutoff
	// excluded trailing puzzles.
	HeaderFromPacked bool
}

// Assembler packs whole puzzle groups into a flash image.
type Assembler struct {
	logger  *log.Logger
	options Options
	store   Store
}

// New creates an assembler reading records from the given store.
func New(logger *log.Logger, store Store, options Options) *Assembler {
	return &Assembler{
		logger:  logger,
		options: options,
		store:   store,
	}
}

// Build assembles the flash image. Puzzle groups are packed in sorted name
// order until the next whole group would overflow the data region; remaining
// groups are left out, which is a normal termination and not an error.
// emittedPages is the page total accepted during emission and is written to
// the configuration sector unless HeaderFromPacked is set.
// The returned image is always exactly FlashSize bytes.
func (a *Assembler) Build(emittedPages int) ([]byte, error) {
	names, err := a.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	groups := groupRecords(names)

	data := make([]byte, 0, MaxDataSize)
	packedPages := 0
	packedPuzzles := 0

	for _, group := range groups {
		if len(data)+len(group)*RowSize > MaxDataSize {
			a.logger.Info("Flash capacity reached, leaving out remaining puzzles",
				log.Int("packedPuzzles", packedPuzzles))
			break
		}

		for _, name := range group {
			row, err := a.readRow(name)
			if err != nil {
				return nil, err
			}
			data = append(data, row...)
			packedPages++
		}
		packedPuzzles++
	}

	a.logger.Debug("Packed data region",
		log.Int("puzzles", packedPuzzles),
		log.Int("pages", packedPages),
		log.Int("bytes", len(data)))

	headerPages := emittedPages
	if a.options.HeaderFromPacked {
		headerPages = packedPages
	}

	image := make([]byte, FlashSize)
	copy(image, data)
	copy(image[MaxDataSize:], configSector(headerPages))
	return image, nil
}

// readRow reads a record artifact and pads it to a full row. Trailing
// whitespace is not part of the record.
func (a *Assembler) readRow(name string) ([]byte, error) {
	content, err := a.store.Read(name)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimRight(string(content), " \t\r\n")
	if len(trimmed) > RowSize {
		return nil, fmt.Errorf("%w: '%s' has %d bytes", ErrRecordTooLarge, name, len(trimmed))
	}

	row := make([]byte, RowSize)
	copy(row, trimmed)
	return row, nil
}

// groupRecords splits sorted record names into per-puzzle groups keyed by the
// name prefix before the trailing move number.
func groupRecords(names []string) [][]string {
	var groups [][]string
	currentKey := ""

	for _, name := range names {
		key, ok := sink.GroupKey(name)
		if !ok {
			continue
		}
		if key != currentKey || len(groups) == 0 {
			groups = append(groups, nil)
			currentKey = key
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], name)
	}
	return groups
}

// configSector encodes the fixed layout configuration sector: magic, page
// count, byte count, type/font counts, one populated content type slot and
// its row size, three reserved slots each, zero padded to the sector size.
func configSector(pages int) []byte {
	sector := make([]byte, ConfigSectorSize)

	binary.LittleEndian.PutUint32(sector[0:], magic)
	binary.LittleEndian.PutUint32(sector[4:], uint32(pages))
	binary.LittleEndian.PutUint32(sector[8:], uint32(pages*RowSize))
	sector[12] = 0x1 // number of content types
	sector[13] = 0x1 // font size
	// sector[14:16] reserved
	sector[16] = contentTypeChessPuzzle
	// sector[17:20] content type slots 1-3
	binary.LittleEndian.PutUint32(sector[20:], RowSize)
	// sector[24:36] size slots 1-3

	return sector
}
