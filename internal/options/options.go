// Package options contains the program options.
package options

// Program options of the puzzle ROM generator.
type Program struct {
	Input   string // puzzle corpus CSV, stdin when empty
	SinkDir string // directory receiving per-move record artifacts
	RomFile string // output flash image

	Verbose bool
	Debug   bool
	Quiet   bool
	DryRun  bool

	NoRom            bool   // skip flash image generation
	HeaderFromPacked bool   // header counts reflect packed pages, not emitted pages
	Verify           bool   // cross-check accepted puzzles against a chess library
	Parquet          string // optional parquet report of accepted move records

	MaxMoves  int
	MinMoves  int
	MaxRating int
	MinRating int

	ThemeTag       string
	ExcludePieces  string
	ScanBoardOnly  bool
	LastMovePieces string
	FromPuzzleID   string
	ToPuzzleID     string
}

// New returns program options with default values.
func New() Program {
	return Program{
		SinkDir:        "fenpuzzles",
		RomFile:        "lightnote.rom",
		MaxMoves:       10,
		MinMoves:       1,
		MaxRating:      3000,
		MinRating:      500,
		LastMovePieces: "prnbkq",
	}
}
