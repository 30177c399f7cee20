// Package coerce converts loosely typed spreadsheet cells into warehouse
// column values. Every converter returns (nil, false) for null input and
// (nil, true) when a non-null value could not be converted.
package coerce

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// Excel serial numbers outside this range are not treated as dates.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"01-02-06",
	"1-2-06",
	"02-01-2006",
	"2006/01/02",
}

// Number converts v to float64. Decimal commas ("7,5") are accepted.
func Number(v any) (any, bool) {
	if dataset.IsNullValue(v) {
		return nil, false
	}
	switch value := v.(type) {
	case string:
		return parseNumber(value)
	case []byte:
		return parseNumber(string(value))
	case time.Time:
		return nil, true
	}
	out, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(out) || math.IsInf(out, 0) {
		return nil, true
	}
	return out, false
}

// Integer converts v to int64. Values with a fractional part are gaps.
func Integer(v any) (any, bool) {
	number, gap := Number(v)
	if number == nil {
		return nil, gap
	}
	f := number.(float64)
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return nil, true
	}
	return int64(f), false
}

// Date converts v to a calendar date at UTC midnight. Excel serial numbers
// and the common spreadsheet text layouts are accepted.
func Date(v any) (any, bool) {
	if dataset.IsNullValue(v) {
		return nil, false
	}
	switch value := v.(type) {
	case time.Time:
		return truncateDay(value), false
	case string:
		return parseDate(value)
	case []byte:
		return parseDate(string(value))
	}
	serial, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, true
	}
	return fromSerial(serial)
}

// Text returns v as a string, verbatim. Blank text is null.
func Text(v any) (any, bool) {
	if dataset.IsNullValue(v) {
		return nil, false
	}
	if t, ok := v.(time.Time); ok {
		return dataset.Text(truncateDay(t)), false
	}
	return dataset.Text(v), false
}

func parseNumber(raw string) (any, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, false
	}
	if strings.Contains(text, ",") && !strings.Contains(text, ".") {
		text = strings.ReplaceAll(text, ",", ".")
	}
	out, err := cast.ToFloat64E(text)
	if err != nil || math.IsNaN(out) || math.IsInf(out, 0) {
		return nil, true
	}
	return out, false
}

func parseDate(raw string) (any, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return truncateDay(parsed), false
		}
	}
	if serial, err := strconv.ParseFloat(text, 64); err == nil {
		return fromSerial(serial)
	}
	return nil, true
}

func fromSerial(serial float64) (any, bool) {
	if serial < minExcelSerial || serial > maxExcelSerial {
		return nil, true
	}
	parsed, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return nil, true
	}
	return truncateDay(parsed), false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
