package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/rickgao/sensor-data/internal/model"
)

// ErrNoHeader is returned for a file without a header row.
var ErrNoHeader = errors.New("missing header row")

// Reader reads one CSV file record by record.
type Reader struct {
	path   string
	f      *os.File
	csv    *csv.Reader
	header model.Header
}

// Open opens path and reads its header row.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	// BOMOverride drops a UTF-8 BOM and transcodes UTF-16 files that carry
	// one; everything else passes through untouched.
	cr := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(transform.Nop)))
	cr.FieldsPerRecord = 0 // fixed by the header row

	header, err := cr.Read()
	if err != nil {
		f.Close()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	return &Reader{
		path:   path,
		f:      f,
		csv:    cr,
		header: model.Header(header),
	}, nil
}

// Path returns the file path.
func (r *Reader) Path() string {
	return r.path
}

// Header returns the header row.
func (r *Reader) Header() model.Header {
	return r.header
}

// Read returns the next record, or io.EOF after the last one.
func (r *Reader) Read() (model.Record, error) {
	rec, err := r.csv.Read()
	if err != nil {
		return nil, err
	}
	return model.Record(rec), nil
}

// Line returns the line number of the record most recently read.
func (r *Reader) Line() int {
	line, _ := r.csv.FieldPos(0)
	return line
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// ReadAll reads a whole file.
func ReadAll(path string) (model.Header, []model.Record, error) {
	r, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	var records []model.Record
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return r.Header(), records, nil
		}
		if err != nil {
			return nil, nil, err
		}
		records = append(records, rec)
	}
}
