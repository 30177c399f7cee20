package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/futbol-analytics/scouting-warehouse/internal/usecase"
)

// WriteReport encodes the run report as indented JSON.
func WriteReport(w io.Writer, report usecase.RunReport) error {
	encoder := sonic.ConfigDefault.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encode run report: %w", err)
	}
	return nil
}

// SaveReport writes the report to path, or to stdout when path is empty.
func SaveReport(path string, report usecase.RunReport) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return WriteReport(os.Stdout, report)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	if err := WriteReport(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
