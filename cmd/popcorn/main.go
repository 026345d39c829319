// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the popcorn CLI: movie search, movie
// details, and a rated watched list, either from the terminal or through
// the web UI started by "popcorn serve".
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/popcorn/internal/omdb"
	"github.com/pdiddy/popcorn/internal/secrets"
	"github.com/pdiddy/popcorn/internal/storage"
	"github.com/pdiddy/popcorn/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout    = 10 * time.Second
	defaultUserAgent  = "popcorn/0.1"
	defaultAddr       = ":8080"
	defaultSecretsDir = ".secrets/"
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretsFS is where secrets are read from; tests swap in a MemMapFs.
var secretsFS afero.Fs = afero.NewOsFs()

var rootCmd = &cobra.Command{
	Use:   "popcorn",
	Short: "Search movies and keep a rated watched list",
	Long: `popcorn searches the OMDb movie database, shows movie details, and keeps
a list of movies you watched with your own rating. The same state is
available from the terminal and from the web UI started by "popcorn serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secretsFS, defaultSecretsDir, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./popcorn.yaml or ~/.config/popcorn/popcorn.yaml)")
	pf.String("storage", "", "watched list backend: sqlite, file, or memory (default sqlite)")
	pf.String("storage-path", "", "SQLite database file or JSON directory (default data/popcorn.db or data)")

	viper.BindPFlag("storage.driver", pf.Lookup("storage"))
	viper.BindPFlag("storage.path", pf.Lookup("storage-path"))
	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("popcorn")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "popcorn"))
		}
	}

	viper.SetEnvPrefix("POPCORN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so that environment overrides reach
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("omdb.base_url", omdb.DefaultBaseURL)
	v.SetDefault("omdb.api_key", "")
	v.SetDefault("omdb.timeout", defaultTimeout)
	v.SetDefault("omdb.user_agent", defaultUserAgent)
	v.SetDefault("storage.driver", string(types.StorageSQLite))
	v.SetDefault("storage.path", "")
	v.SetDefault("server.addr", defaultAddr)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 0)
	v.SetDefault("log.max_backups", 0)
}

// loadConfig decodes v into a Config. The OMDb key comes from config or
// environment first, then .secrets/omdb-api-key, then the built-in key.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.OMDb.APIKey == "" {
		cfg.OMDb.APIKey = loadedSecrets[secrets.OMDbAPIKey]
	}
	if cfg.OMDb.APIKey == "" {
		cfg.OMDb.APIKey = omdb.DefaultAPIKey
	}
	if cfg.OMDb.Timeout <= 0 {
		cfg.OMDb.Timeout = defaultTimeout
	}
	if cfg.Storage.Path == "" {
		switch cfg.Storage.Driver {
		case types.StorageFile:
			cfg.Storage.Path = storage.DefaultFileDir
		case types.StorageSQLite, "":
			cfg.Storage.Path = storage.DefaultSQLitePath
		}
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
