// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// The filename is the key name and the trimmed file contents are the value.
//
// Supported key files: omdb-api-key.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// OMDbAPIKey is the file holding the OMDb API key.
const OMDbAPIKey = "omdb-api-key"

// Load reads every regular, non-dot file in dir on fs. A missing directory
// yields an empty map. Unreadable files are reported on warn and skipped.
func Load(fs afero.Fs, dir string, warn io.Writer) (map[string]string, error) {
	if warn == nil {
		warn = io.Discard
	}
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := afero.ReadFile(fs, filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}
