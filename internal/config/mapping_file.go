package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// MappingOverride renames a source sheet and adds label aliases for its
// columns. Keys of Columns are spreadsheet labels, values are warehouse
// column names.
type MappingOverride struct {
	Sheet   string            `koanf:"sheet"`
	Columns map[string]string `koanf:"columns"`
}

type mappingFile struct {
	Sheets map[string]MappingOverride `koanf:"sheets"`
}

// LoadMappingOverrides reads a YAML file of the form
//
//	sheets:
//	  players:
//	    sheet: Jugadores 2025
//	    columns:
//	      Nombre: player_name
//
// An empty path yields no overrides.
func LoadMappingOverrides(path string) (map[string]MappingOverride, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	k := koanf.New("::")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load mapping file %s: %w", path, err)
	}

	var out mappingFile
	if err := k.Unmarshal("", &out); err != nil {
		return nil, fmt.Errorf("decode mapping file %s: %w", path, err)
	}

	for key, override := range out.Sheets {
		for label, target := range override.Columns {
			if strings.TrimSpace(label) == "" || strings.TrimSpace(target) == "" {
				return nil, fmt.Errorf("mapping file %s: sheet %s has an empty column alias", path, key)
			}
		}
	}
	return out.Sheets, nil
}
