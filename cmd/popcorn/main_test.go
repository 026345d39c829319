// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/popcorn/internal/omdb"
	"github.com/pdiddy/popcorn/internal/omdb/omdbtest"
	"github.com/pdiddy/popcorn/internal/secrets"
	"github.com/pdiddy/popcorn/internal/storage"
	"github.com/pdiddy/popcorn/pkg/types"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	loadedSecrets = nil
	cfg, err := loadConfig(newViper())
	require.NoError(t, err)

	assert.Equal(t, omdb.DefaultBaseURL, cfg.OMDb.BaseURL)
	assert.Equal(t, omdb.DefaultAPIKey, cfg.OMDb.APIKey)
	assert.Equal(t, defaultTimeout, cfg.OMDb.Timeout)
	assert.Equal(t, defaultUserAgent, cfg.OMDb.UserAgent)
	assert.Equal(t, types.StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, storage.DefaultSQLitePath, cfg.Storage.Path)
	assert.Equal(t, defaultAddr, cfg.Server.Addr)
}

func TestLoadConfigAPIKeyOrder(t *testing.T) {
	loadedSecrets = map[string]string{secrets.OMDbAPIKey: "from-secret"}
	t.Cleanup(func() { loadedSecrets = nil })

	cfg, err := loadConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.OMDb.APIKey)

	v := newViper()
	v.Set("omdb.api_key", "from-config")
	cfg, err = loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "from-config", cfg.OMDb.APIKey)
}

func TestLoadConfigOverrides(t *testing.T) {
	v := newViper()
	v.Set("omdb.timeout", "3s")
	v.Set("storage.driver", "file")
	v.Set("log.max_backups", 4)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.OMDb.Timeout)
	assert.Equal(t, types.StorageFile, cfg.Storage.Driver)
	assert.Equal(t, storage.DefaultFileDir, cfg.Storage.Path)
	assert.Equal(t, 4, cfg.Log.MaxBackups)
}

// execute runs the CLI against a fake OMDb server with a file backend in
// a temp directory.
func execute(t *testing.T, srv *omdbtest.Server, dir string, args ...string) (string, error) {
	t.Helper()
	secretsFS = afero.NewMemMapFs()
	viper.Set("omdb.base_url", srv.URL+"/")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--storage", "file", "--storage-path", dir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	srv := omdbtest.NewBatman()
	t.Cleanup(srv.Close)
	dir := filepath.Join(t.TempDir(), "data")

	out, err := execute(t, srv, dir, "search", "batman", "--json")
	require.NoError(t, err)
	var items []types.SearchResultItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 2)

	out, err = execute(t, srv, dir, "watched", "add", omdbtest.BatmanBegins.ID, "--rating", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Batman Begins")

	out, err = execute(t, srv, dir, "watched", "list")
	require.NoError(t, err)
	assert.Contains(t, out, omdbtest.BatmanBegins.ID)
	assert.Contains(t, out, "140 min")

	out, err = execute(t, srv, dir, "watched", "export", "--format", "json")
	require.NoError(t, err)
	var doc struct {
		Summary struct {
			Count int `json:"count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1, doc.Summary.Count)

	_, err = execute(t, srv, dir, "watched", "remove", omdbtest.BatmanBegins.ID)
	require.NoError(t, err)
	_, err = execute(t, srv, dir, "watched", "remove", omdbtest.BatmanBegins.ID)
	assert.Error(t, err)

	_, err = execute(t, srv, dir, "show", "tt404")
	assert.ErrorContains(t, err, "Incorrect IMDb ID.")

	out, err = execute(t, srv, dir, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "popcorn dev")
}
