package workbook

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/dataset"
	"github.com/futbol-analytics/scouting-warehouse/internal/domain/source"
	"github.com/xuri/excelize/v2"
)

// Reader serves sheets of an .xlsx workbook. The first row of a sheet is its
// header; blank header cells are named "Unnamed: <index>" and repeated labels
// get a ".<n>" suffix. Cell values are returned raw, so dates arrive as Excel
// serial numbers.
type Reader struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

func Open(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "open workbook %s", path)
	}
	return &Reader{file: f, path: path}, nil
}

func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Sheets lists the sheet names in workbook order.
func (r *Reader) Sheets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	return r.file.GetSheetList()
}

func (r *Reader) ReadSheet(ctx context.Context, name string) (dataset.RowSet, error) {
	if err := ctx.Err(); err != nil {
		return dataset.RowSet{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return dataset.RowSet{}, crerr.Newf("workbook %s is closed", r.path)
	}

	index, err := r.file.GetSheetIndex(name)
	if err != nil {
		return dataset.RowSet{}, crerr.Wrapf(err, "look up sheet %s", name)
	}
	if index < 0 {
		return dataset.RowSet{}, fmt.Errorf("%w: %s in %s", source.ErrSheetNotFound, name, r.path)
	}

	cells, err := r.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return dataset.RowSet{}, crerr.Wrapf(err, "read sheet %s", name)
	}
	return toRowSet(cells), nil
}

func toRowSet(cells [][]string) dataset.RowSet {
	if len(cells) == 0 {
		return dataset.RowSet{}
	}

	columns := headerLabels(cells[0])
	out := dataset.New(columns...)
	for _, record := range cells[1:] {
		row := make(dataset.Row, len(columns))
		empty := true
		for i, column := range columns {
			if i >= len(record) || strings.TrimSpace(record[i]) == "" {
				row[column] = nil
				continue
			}
			row[column] = record[i]
			empty = false
		}
		if empty {
			continue
		}
		out.Add(row)
	}
	return out
}

func headerLabels(header []string) []string {
	out := make([]string, 0, len(header))
	seen := make(map[string]int, len(header))
	for i, raw := range header {
		label := strings.TrimSpace(raw)
		if label == "" {
			label = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[label]; dup {
			seen[label] = n + 1
			label = label + "." + strconv.Itoa(n+1)
		} else {
			seen[label] = 0
		}
		out = append(out, label)
	}
	return out
}
