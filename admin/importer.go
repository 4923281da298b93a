package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"dollardash/models"
)

var ErrImportFormat = errors.New("import must be a CSV with a name,category,description,image header or a JSON array")

// ImportResult reports a bulk import row by row.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

var importColumns = []string{"name", "category", "description", "image"}

// Import creates one product per row of data. Rows without a name or image,
// or with an unknown category, are skipped. Write failures are counted and
// the import carries on.
func (m *Manager) Import(ctx context.Context, data []byte) (ImportResult, error) {
	rows, err := parseImport(data)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{}
	for i, in := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		_, err := m.CreateProduct(ctx, in)
		switch {
		case err == nil:
			res.Created++
		case IsValidation(err):
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
		default:
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+1, err))
		}
	}
	return res, nil
}

func parseImport(data []byte) ([]ProductInput, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrImportFormat
	}
	if trimmed[0] == '[' {
		var rows []ProductInput
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
		}
		return rows, nil
	}
	return parseCSV(trimmed)
}

func parseCSV(data []byte) ([]ProductInput, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range importColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", ErrImportFormat, col)
		}
	}

	field := func(rec []string, col string) string {
		i := index[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []ProductInput
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
		}
		rows = append(rows, ProductInput{
			Name:        field(rec, "name"),
			Category:    models.Category(field(rec, "category")),
			Description: field(rec, "description"),
			Image:       field(rec, "image"),
		})
	}
	return rows, nil
}
