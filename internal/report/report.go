// Package report exports accepted move records as a parquet file for
// offline analysis of a generation run.
package report

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// MoveRow is one accepted move record.
type MoveRow struct {
	PuzzleID   string `parquet:"name=puzzle_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Board      string `parquet:"name=board, type=BYTE_ARRAY, convertedtype=UTF8"`
	FromIndex  int32  `parquet:"name=from_index, type=INT32"`
	ToIndex    int32  `parquet:"name=to_index, type=INT32"`
	MoveNumber int32  `parquet:"name=move_number, type=INT32"`
	TotalMoves int32  `parquet:"name=total_moves, type=INT32"`
	Rating     int32  `parquet:"name=rating, type=INT32"`
	Theme      string `parquet:"name=theme, type=BYTE_ARRAY, convertedtype=UTF8"`
}

const writerParallelism = 4

// WriteMoves writes all rows to a snappy compressed parquet file.
func WriteMoves(path string, rows []MoveRow) error {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("creating parquet file '%s': %w", path, err)
	}

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(MoveRow), writerParallelism)
	if err != nil {
		_ = fileWriter.Close()
		return fmt.Errorf("creating parquet writer: %w", err)
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rows {
		if err := parquetWriter.Write(row); err != nil {
			_ = fileWriter.Close()
			return fmt.Errorf("writing parquet row: %w", err)
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		_ = fileWriter.Close()
		return fmt.Errorf("finalizing parquet file: %w", err)
	}

	if err := fileWriter.Close(); err != nil {
		return fmt.Errorf("closing parquet file: %w", err)
	}
	return nil
}
