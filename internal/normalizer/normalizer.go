package normalizer

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/rintaro796/cs2-discord-alerts/internal/model"
)

// IdentitySeparator joins the natural key fields into a stable identity.
const IdentitySeparator = " | "

// SchemaError indicates the feed is missing a required column.
type SchemaError struct {
	Missing string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required header: %s", e.Missing)
}

// Row is one raw feed row keyed by trimmed column name.
type Row map[string]string

// ParseTable parses CSV text into rows keyed by header name.
// The header row is mandatory; the first missing required column
// fails the whole parse with a SchemaError.
func ParseTable(text string, required []string) ([]Row, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: no header row")
	}

	headers := make([]string, len(records[0]))
	seen := make(map[string]bool, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		headers[i] = h
		seen[h] = true
	}
	for _, req := range required {
		if !seen[req] {
			return nil, &SchemaError{Missing: req}
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseFloat leniently coerces a feed cell to a number.
// Surrounding whitespace, thousands separators and a trailing "%"
// are stripped; anything that still fails falls back to def.
func ParseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return def
	}
	var f float64
	if _, err := fmt.Sscanf(s, "%f", &f); err != nil {
		return def
	}
	return f
}

// Normalize converts raw rows into uniform records. Numeric fields default
// to 0 on parse failure; the explicit ROI column is carried only when the
// cell is non-blank and parses.
func Normalize(rows []Row) []model.Record {
	records := make([]model.Record, 0, len(rows))
	for _, r := range rows {
		item := r["Item Name"]
		condition := r["Condition"]
		rec := model.Record{
			Identity:     item + IdentitySeparator + condition,
			Item:         item,
			Condition:    condition,
			Quantity:     ParseFloat(r["Quantity"], 0),
			BuyPrice:     ParseFloat(r["Buy Price (USD)"], 0),
			CurrentPrice: ParseFloat(r["Current Price (USD)"], 0),
		}
		if cell := strings.TrimSuffix(strings.TrimSpace(r["ROI (%)"]), "%"); cell != "" {
			var roi float64
			if _, err := fmt.Sscanf(strings.ReplaceAll(cell, ",", ""), "%f", &roi); err == nil {
				rec.ExplicitROI = &roi
			}
		}
		records = append(records, rec)
	}
	return records
}
