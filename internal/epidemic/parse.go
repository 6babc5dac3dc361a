package epidemic

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one data record of a daily report.
type Row []string

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse splits a CSV payload into data rows, dropping the header line.
func Parse(raw []byte) ([]Row, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows []Row
	header := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		if header {
			header = false
			continue
		}
		for i := range record {
			record[i] = strings.TrimRight(record[i], "\r\n")
		}
		rows = append(rows, Row(record))
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrInvalidData)
	}
	if rows[0].blank() {
		return nil, fmt.Errorf("%w: first data row is empty", ErrInvalidData)
	}
	return rows, nil
}

func (r Row) blank() bool {
	for _, f := range r {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
