package cart

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/drstein77/storefront/internal/models"
	"github.com/shopspring/decimal"
)

var csvHeader = []string{"id", "title", "price", "category", "image", "quantity"}

const (
	// MaxImportQuantity bounds the quantity of a single imported row.
	MaxImportQuantity = 1000
	maxImportRows     = 10_000
)

// WriteCSV writes the line items of s as CSV with a header row.
func WriteCSV(w io.Writer, s State) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, li := range s.Items {
		record := []string{
			strconv.Itoa(li.ID),
			li.Title,
			li.Price.StringFixed(2),
			li.Category,
			li.Image,
			strconv.Itoa(li.Quantity),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses line items written by WriteCSV. The header row is optional.
// Rows with a non-positive id, a negative price or a quantity outside
// 0..MaxImportQuantity are rejected.
func ReadCSV(r io.Reader) ([]models.LineItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	cr.TrimLeadingSpace = true

	var items []models.LineItem
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if line == 1 && strings.EqualFold(record[0], csvHeader[0]) {
			continue
		}
		if len(items) == maxImportRows {
			return nil, fmt.Errorf("line %d: more than %d rows", line, maxImportRows)
		}

		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id %q: %w", line, record[0], err)
		}
		if id <= 0 {
			return nil, fmt.Errorf("line %d: id must be positive", line)
		}
		price, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid price %q: %w", line, record[2], err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("line %d: price must not be negative", line)
		}
		qty, err := strconv.Atoi(record[5])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity %q: %w", line, record[5], err)
		}
		if qty < 0 || qty > MaxImportQuantity {
			return nil, fmt.Errorf("line %d: quantity must be between 0 and %d", line, MaxImportQuantity)
		}

		items = append(items, models.LineItem{
			ID:       id,
			Title:    record[1],
			Price:    price,
			Category: record[3],
			Image:    record[4],
			Quantity: qty,
		})
	}
	return items, nil
}
