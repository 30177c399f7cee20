package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// PlaceholderFormat selects how bind parameters are rendered.
type PlaceholderFormat int

const (
	// Dollar renders $1, $2, ... (postgres).
	Dollar PlaceholderFormat = iota
	// Question renders ? (mysql, sqlite).
	Question
)

// FormatForDriver maps a database/sql driver name to its placeholder format.
func FormatForDriver(driver string) PlaceholderFormat {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "mysql", "sqlite", "sqlite3":
		return Question
	default:
		return Dollar
	}
}

func (f PlaceholderFormat) placeholder(i int) string {
	if f == Question {
		return "?"
	}
	return "$" + strconv.Itoa(i)
}

// SelectBuilder renders a parameterless SELECT over whole tables.
type SelectBuilder struct {
	columns []string
	table   string
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, error) {
	if len(b.columns) == 0 {
		return "", fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", fmt.Errorf("select table is required")
	}

	var buf strings.Builder
	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)

	appendOrderByClause(&buf, b.orderBy)

	return buf.String(), nil
}

type InsertBuilder struct {
	format  PlaceholderFormat
	table   string
	columns []string
	rows    [][]any
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) PlaceholderFormat(format PlaceholderFormat) *InsertBuilder {
	b.format = format
	return b
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Rows reports how many value tuples have been added.
func (b *InsertBuilder) Rows() int {
	return len(b.rows)
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(") VALUES ")

	args := make([]any, 0, len(b.rows)*len(b.columns))
	argIndex := 1
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(b.format.placeholder(argIndex))
			args = append(args, value)
			argIndex++
		}
		buf.WriteString(")")
	}

	return buf.String(), args, nil
}

func appendOrderByClause(buf *strings.Builder, orderBy []string) {
	if len(orderBy) == 0 {
		return
	}
	buf.WriteString(" ORDER BY ")
	buf.WriteString(strings.Join(orderBy, ", "))
}
