// Package allocation serves the static student → college allocation table.
package allocation

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	UniqueIDColumn  = "UniqueID"
	CollegeIDColumn = "CollegeID"
)

var (
	ErrParse        = errors.New("could not parse allocation table")
	ErrInvalidInput = errors.New("please enter a valid numeric UniqueID")
	ErrNotFound     = errors.New("no allocation found for this UniqueID")
)

// Table is the allocation source held in memory. Rows keep every column of
// the file, in file order.
type Table struct {
	header  []string
	rows    [][]string
	byID    map[int64][]int
	college int
}

// Record is one matching row keyed by column name.
type Record map[string]string

type Result struct {
	UniqueID  int64    `json:"unique_id"`
	CollegeID string   `json:"college_id"`
	Columns   []string `json:"columns"`
	Records   []Record `json:"records"`
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrParse)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	uid, college := -1, -1
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrParse, name)
		}
		seen[name] = true
		switch name {
		case UniqueIDColumn:
			uid = i
		case CollegeIDColumn:
			college = i
		}
	}
	if uid < 0 || college < 0 {
		return nil, fmt.Errorf("%w: columns %s and %s are required", ErrParse, UniqueIDColumn, CollegeIDColumn)
	}

	t := &Table{
		header:  header,
		rows:    records[1:],
		byID:    make(map[int64][]int, len(records)-1),
		college: college,
	}
	for i, row := range t.rows {
		id, err := strconv.ParseInt(strings.TrimSpace(row[uid]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %s %q is not an integer", ErrParse, i+2, UniqueIDColumn, row[uid])
		}
		t.byID[id] = append(t.byID[id], i)
	}
	return t, nil
}

func (t *Table) Len() int { return len(t.rows) }

// ParseUniqueID turns free text into a lookup key. Single underscores between
// digits are accepted as separators, so "1_042" reads as 1042.
func ParseUniqueID(input string) (int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, ErrInvalidInput
	}
	input, ok := stripDigitSeparators(input)
	if !ok {
		return 0, ErrInvalidInput
	}
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, ErrInvalidInput
	}
	return id, nil
}

func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	isDigit := func(i int) bool { return i >= 0 && i < len(s) && s[i] >= '0' && s[i] <= '9' }
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			if !isDigit(i-1) || !isDigit(i+1) {
				return "", false
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String(), true
}

// Lookup finds every row whose UniqueID equals input exactly.
func (t *Table) Lookup(input string) (Result, error) {
	id, err := ParseUniqueID(input)
	if err != nil {
		return Result{}, err
	}
	idx := t.byID[id]
	if len(idx) == 0 {
		return Result{}, ErrNotFound
	}

	res := Result{
		UniqueID:  id,
		CollegeID: t.rows[idx[0]][t.college],
		Columns:   t.header,
		Records:   make([]Record, 0, len(idx)),
	}
	for _, i := range idx {
		rec := make(Record, len(t.header))
		for c, name := range t.header {
			rec[name] = t.rows[i][c]
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// CSV renders the matched rows with the table header.
func (t *Table) CSV(input string) (filename string, data []byte, err error) {
	res, err := t.Lookup(input)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.header); err != nil {
		return "", nil, err
	}
	for _, i := range t.byID[res.UniqueID] {
		if err := w.Write(t.rows[i]); err != nil {
			return "", nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("allocation_%d.csv", res.UniqueID), buf.Bytes(), nil
}
