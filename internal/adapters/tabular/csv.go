// Package tabular reads and writes the CSV files exchanged between pipeline
// stages and maps their columns onto domain records.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/okian/secopvotes/internal/domain/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV loads a whole CSV file. A leading UTF-8 BOM is ignored and short
// rows are padded to the header width.
func ReadCSV(path string) (*model.Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissingInput)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(bytes.NewReader(bytes.TrimPrefix(b, utf8BOM)))
}

// Decode parses CSV content whose first record is the header.
func Decode(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := model.NewTable(header...)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", t.Len()+1, err)
		}
		t.Append(rec...)
	}
	return t, nil
}

// WriteCSV replaces path with t. Content goes to a temporary file in the same
// directory first, so readers never observe a partial table.
func WriteCSV(path string, t *model.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if err := Encode(tmp, t); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return nil
}

// Encode writes t as CSV with a header row.
func Encode(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
