// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watched

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/popcorn/pkg/types"
)

// Export is the document written by WriteExport.
type Export struct {
	Summary Summary               `json:"summary" yaml:"summary"`
	Movies  []types.WatchedRecord `json:"movies" yaml:"movies"`
}

// WriteExport writes the list and its summary to w as "yaml" or "json".
func WriteExport(w io.Writer, records []types.WatchedRecord, format string) error {
	if records == nil {
		records = []types.WatchedRecord{}
	}
	doc := Export{Summary: Summarize(records), Movies: records}

	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}
