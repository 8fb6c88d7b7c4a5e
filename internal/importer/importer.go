package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"retail-customers/internal/domain"
)

// CustomerCreator is the use case each imported row goes through, so rows
// obey the same validation as API requests.
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error)
}

// RowError describes a row that was skipped.
type RowError struct {
	Line   int
	DNI    string
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d (dni %q): %s", e.Line, e.DNI, e.Reason)
}

// Result summarises an import run.
type Result struct {
	Imported int
	Rejected []RowError
}

// CSVImporter reads customer rows with a name,email,dni,age header (any order,
// case-insensitive) and creates one customer per row.
type CSVImporter struct {
	reader  *csv.Reader
	service CustomerCreator
}

func NewCSVImporter(r io.Reader, svc CustomerCreator) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:  csvr,
		service: svc,
	}
}

var requiredColumns = []string{"dni", "age"}

// Run imports every row. Rows failing customer validation or with an
// unparsable age are reported in Result.Rejected and skipped; any other error
// stops the run.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result

	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return res, fmt.Errorf("missing %q column", col)
		}
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		c, perr := parseRow(record, index)
		if perr != nil {
			res.Rejected = append(res.Rejected, RowError{Line: line, DNI: c.DNI, Reason: perr.Error()})
			continue
		}

		if _, err := i.service.CreateCustomer(ctx, c); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				res.Rejected = append(res.Rejected, RowError{Line: line, DNI: c.DNI, Reason: verr.Message})
				continue
			}
			return res, fmt.Errorf("create customer on line %d: %w", line, err)
		}
		res.Imported++
	}

	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Customer, error) {
	c := domain.Customer{
		Name:  pick(record, index, "name"),
		Email: pick(record, index, "email"),
		DNI:   pick(record, index, "dni"),
	}
	if raw := pick(record, index, "age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			return c, fmt.Errorf("age %q is not a whole number", raw)
		}
		c.Age = &age
	}
	return c, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
