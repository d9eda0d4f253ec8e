package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Tabular Types
// -----------------------------------------------------------------------------

// Header is the ordered list of column names from a file's first row.
type Header []string

// Equal reports whether both headers have the same names in the same order.
func (h Header) Equal(other Header) bool {
	if len(h) != len(other) {
		return false
	}
	for i, name := range h {
		if name != other[i] {
			return false
		}
	}
	return true
}

// Index returns the position of the named column, or -1.
func (h Header) Index(name string) int {
	for i, n := range h {
		if n == name {
			return i
		}
	}
	return -1
}

// Record is one data row (a Reading) with one field per header column.
type Record []string

// Equal reports whether every field of both records is equal.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for i, v := range r {
		if v != other[i] {
			return false
		}
	}
	return true
}

// Key returns a string that is identical for two records exactly when every
// field is equal. Fields are length-prefixed so no separator can collide.
func (r Record) Key() string {
	var b strings.Builder
	for _, v := range r {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}

// -----------------------------------------------------------------------------
// Schema Types
// -----------------------------------------------------------------------------

// ColumnType is the semantic type of a column.
type ColumnType int

const (
	// ColumnString accepts any text.
	ColumnString ColumnType = iota
	// ColumnTimestamp must parse as a timestamp.
	ColumnTimestamp
	// ColumnNumber must parse as a float64.
	ColumnNumber
)

// String returns the config name of the column type.
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTimestamp:
		return "timestamp"
	case ColumnNumber:
		return "number"
	default:
		return "string"
	}
}

// ParseColumnType converts a config name ("string", "timestamp", "number").
func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "string":
		return ColumnString, nil
	case "timestamp":
		return ColumnTimestamp, nil
	case "number":
		return ColumnNumber, nil
	default:
		return ColumnString, fmt.Errorf("unknown column type %q", s)
	}
}

// Column is one named, typed column of a schema.
type Column struct {
	Name string
	Type ColumnType
}

// Check validates a single field value against the column type.
func (c Column) Check(value string, ts TimestampParser) error {
	switch c.Type {
	case ColumnTimestamp:
		if _, err := ts.Parse(value); err != nil {
			return fmt.Errorf("column %q: %w", c.Name, err)
		}
	case ColumnNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return fmt.Errorf("column %q: invalid number %q", c.Name, value)
		}
	}
	return nil
}

// Schema is the ordered list of columns every input file must carry.
type Schema struct {
	Columns []Column
}

// InferSchema builds a schema from a header: the timestamp column is typed
// ColumnTimestamp and all other columns ColumnString.
func InferSchema(h Header, timestampColumn string) Schema {
	cols := make([]Column, len(h))
	for i, name := range h {
		cols[i] = Column{Name: name, Type: ColumnString}
		if name == timestampColumn {
			cols[i].Type = ColumnTimestamp
		}
	}
	return Schema{Columns: cols}
}

// IsZero reports whether no columns are declared.
func (s Schema) IsZero() bool {
	return len(s.Columns) == 0
}

// Header returns the column names in order.
func (s Schema) Header() Header {
	h := make(Header, len(s.Columns))
	for i, c := range s.Columns {
		h[i] = c.Name
	}
	return h
}

// Check validates every field of a record against its column.
func (s Schema) Check(r Record, ts TimestampParser) error {
	if len(r) != len(s.Columns) {
		return fmt.Errorf("got %d fields, want %d", len(r), len(s.Columns))
	}
	for i, c := range s.Columns {
		if c.Type == ColumnString {
			continue
		}
		if err := c.Check(r[i], ts); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Merge Result
// -----------------------------------------------------------------------------

// Result summarizes one merge run.
type Result struct {
	RunID               uuid.UUID // Identifies this run in logs and exports
	Output              string    // Path of the combined file
	Header              Header    // Shared header written to the output
	RowsWritten         int       // Data rows in the combined file
	DuplicatesDiscarded int       // Rows dropped as exact duplicates
	FilesRead           int       // Inputs that contributed rows
	FilesSkipped        []string  // Unreadable inputs skipped (SkipUnreadable only)
}
