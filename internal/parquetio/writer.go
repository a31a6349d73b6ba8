package parquetio

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// Writer streams classification records into a Parquet file.
type Writer struct {
	file   *os.File
	writer *parquet.GenericWriter[Record]
	count  int64
}

// Create creates (or truncates) path and returns a Writer.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}
	w := parquet.NewGenericWriter[Record](f, parquet.Compression(&parquet.Snappy))
	return &Writer{file: f, writer: w}, nil
}

// WriteRows appends rows to the file.
func (w *Writer) WriteRows(rows ...*model.ClassificationRow) error {
	recs := make([]Record, len(rows))
	for i, r := range rows {
		recs[i] = FromRow(r)
	}
	n, err := w.writer.Write(recs)
	w.count += int64(n)
	if err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int64 { return w.count }

// Close flushes the footer and closes the file.
func (w *Writer) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}
