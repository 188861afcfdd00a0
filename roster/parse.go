// Package roster reads the uploaded participant list.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// IDColumn is the header the uploaded file must carry.
const IDColumn = "ID"

var (
	ErrEmpty           = errors.New("roster file is empty")
	ErrMissingIDColumn = fmt.Errorf("roster file has no %q column", IDColumn)
)

// Parse returns the values of the ID column in file order. Blank cells are
// skipped and every other column is ignored.
func Parse(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if strings.TrimSpace(name) == IDColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrMissingIDColumn
	}

	var ids []string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if col >= len(row) {
			continue
		}
		if id := strings.TrimSpace(row[col]); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
