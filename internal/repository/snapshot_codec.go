package repository

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"btcmag7/internal/domain/models"
	"btcmag7/pkg/util"
)

// EncodeSnapshotCSV renders a table as CSV: a Date column followed by one
// column per symbol. Missing prices are empty cells.
func EncodeSnapshotCSV(table *models.PriceTable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{models.DateField}, table.Symbols...)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(header))
	for i, d := range table.Dates {
		row[0] = util.FormatDay(d)
		for j, sym := range table.Symbols {
			px, ok := table.Value(sym, i)
			if !ok {
				row[j+1] = ""
				continue
			}
			row[j+1] = strconv.FormatFloat(px, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshotCSV parses the CSV written by EncodeSnapshotCSV. The rows are
// taken as already aligned; any structural problem is a cache corruption.
func DecodeSnapshotCSV(data []byte) (*models.PriceTable, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = 0

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, models.CacheCorruptError(nil, "snapshot is empty")
		}
		return nil, models.CacheCorruptError(err, "read snapshot header")
	}
	dateCol := -1
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if header[i] == models.DateField {
			dateCol = i
		}
	}
	if dateCol < 0 {
		return nil, models.CacheCorruptError(nil, "snapshot has no %s column", models.DateField)
	}

	table := &models.PriceTable{Columns: make(map[string][]float64, len(header)-1)}
	for i, h := range header {
		if i == dateCol {
			continue
		}
		if _, dup := table.Columns[h]; dup || h == "" {
			return nil, models.CacheCorruptError(nil, "snapshot has invalid column %q", h)
		}
		table.Symbols = append(table.Symbols, h)
		table.Columns[h] = nil
	}

	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, models.CacheCorruptError(err, "read snapshot line %d", line)
		}
		day, ok := util.ParseDay(rec[dateCol])
		if !ok {
			return nil, models.CacheCorruptError(nil, "snapshot line %d: bad date %q", line, rec[dateCol])
		}
		table.Dates = append(table.Dates, day)
		for i, cell := range rec {
			if i == dateCol {
				continue
			}
			v := math.NaN()
			if cell = strings.TrimSpace(cell); cell != "" {
				v, err = strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, models.CacheCorruptError(err, "snapshot line %d column %s", line, header[i])
				}
			}
			table.Columns[header[i]] = append(table.Columns[header[i]], v)
		}
	}
	return table, nil
}
