package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrEmptyFile = errors.New("csv file has no header row")
	ErrWriteOnly = errors.New("csv table is export-only")
)

// MissingColumnsError lists required headers absent from an input file.
type MissingColumnsError struct{ Columns []string }

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// Table binds a fixed header to a row type.
type Table[T any] struct {
	Name     string
	Header   []string
	Required []string
	encode   func(T) []string
	decode   func(get func(col string) string) T
}

func (t Table[T]) Write(w io.Writer, rows []T) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(t.encode(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Record is one data row. Row counts non-blank data records from 1; Err is
// set when the record itself could not be parsed and Value is then zero.
type Record[T any] struct {
	Row   int
	Value T
	Err   error
}

// Read decodes every data row. Headers match case-insensitively, unknown
// columns are ignored and absent optional columns read as "". Stray quotes are
// kept as text; a record that still fails to parse is reported in its Record
// and reading goes on.
func (t Table[T]) Read(r io.Reader) ([]Record[T], error) {
	if t.decode == nil {
		return nil, fmt.Errorf("%s: %w", t.Name, ErrWriteOnly)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", t.Name, err)
	}
	index := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	var missing []string
	for _, col := range t.Required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	var out []Record[T]
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			out = append(out, Record[T]{Row: len(out) + 1, Err: fmt.Errorf("line %d: %w", pe.StartLine, pe.Err)})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name, err)
		}
		if blank(rec) {
			continue
		}
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		out = append(out, Record[T]{Row: len(out) + 1, Value: t.decode(get)})
	}
	return out, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
