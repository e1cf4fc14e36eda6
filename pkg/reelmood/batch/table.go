package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cognicore/reelmood/pkg/reelmood/internalerr"
	"github.com/cognicore/reelmood/pkg/reelmood/sentiment"
)

// Output column names appended by Augment.
const (
	SentimentColumn  = "sentiment"
	ConfidenceColumn = "confidence"
)

// DefaultTextColumn is the input column scored when none is configured.
const DefaultTextColumn = "text"

// ErrMissingColumn is returned when the input lacks the text column.
var ErrMissingColumn = fmt.Errorf("missing text column: %w", internalerr.ErrInvalidInput)

// Table is a parsed CSV file with one designated text column.
type Table struct {
	Header []string
	Rows   [][]string
	column int
}

// ReadTable parses CSV from r. The header row must contain column, compared
// case-insensitively.
func ReadTable(r io.Reader, column string) (*Table, error) {
	if column == "" {
		column = DefaultTextColumn
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty input: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		header[i] = h
		if idx < 0 && strings.EqualFold(h, column) {
			idx = i
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column %q: %w", column, ErrMissingColumn)
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %v: %w", err, internalerr.ErrInvalidInput)
	}

	return &Table{Header: header, Rows: rows, column: idx}, nil
}

// Column returns the name of the text column.
func (t *Table) Column() string {
	return t.Header[t.column]
}

// Texts returns the text column of every row, in row order.
func (t *Table) Texts() []string {
	texts := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		texts[i] = row[t.column]
	}
	return texts
}

// Augment appends the sentiment and confidence columns. results must hold one
// entry per row.
func (t *Table) Augment(results []sentiment.Result) error {
	if len(results) != len(t.Rows) {
		return fmt.Errorf("augment: %d results for %d rows", len(results), len(t.Rows))
	}

	t.Header = append(t.Header, SentimentColumn, ConfidenceColumn)
	for i, res := range results {
		t.Rows[i] = append(t.Rows[i], string(res.Label), strconv.FormatFloat(res.Score, 'f', 4, 64))
	}
	return nil
}

// Write encodes the table as CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
