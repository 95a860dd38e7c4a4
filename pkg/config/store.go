package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PropertiesStore implements Source on top of a viper instance reading a
// .properties file. Environment variables prefixed with POM_ override file
// values.
type PropertiesStore struct {
	v         *viper.Viper
	path      string
	reportDir string
}

// Load reads the properties file at path. If path is empty, POM_CONFIG is
// consulted and then DefaultPath. A missing file is an error: the framework
// cannot pick a browser without one.
func Load(path string) (*PropertiesStore, error) {
	return loadAt(path, time.Now())
}

func loadAt(path string, now time.Time) (*PropertiesStore, error) {
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	v := newViper()
	SetDefaults(v)

	v.SetConfigFile(path)
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
		v.SetConfigType("properties")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("unable to load %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("unable to load %s: %w", path, err)
	}

	return &PropertiesStore{
		v:         v,
		path:      path,
		reportDir: runDir(v.GetString(KeyReportDir), now),
	}, nil
}

// SetDefaults registers default values for every key the framework reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBrowser, defaultBrowser)
	v.SetDefault(KeyHeadless, "false")
	v.SetDefault(KeyMaximizeWindow, "false")
	v.SetDefault(KeyRetryCount, defaultRetryCount)
	v.SetDefault(KeyReportDir, defaultReportDir)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyTimeoutMs, 0)
}

// runDir builds "<base>/run_<yyyyMMdd_HHmmss>".
func runDir(base string, now time.Time) string {
	if base == "" {
		base = defaultReportDir
	}
	return filepath.Join(base, "run_"+now.Format(runDirLayout))
}

// Path returns the file this store was loaded from.
func (s *PropertiesStore) Path() string {
	return s.path
}

// Get returns the raw string value for key.
func (s *PropertiesStore) Get(key string) string {
	return s.v.GetString(key)
}

// GetBool parses the value for key as a boolean.
func (s *PropertiesStore) GetBool(key string) bool {
	return parseBool(s.v.GetString(key))
}

// GetInt parses the value for key as an integer.
func (s *PropertiesStore) GetInt(key string, def int) int {
	return parseInt(s.v.GetString(key), def)
}

// ReportDir returns the run folder computed when the file was loaded.
func (s *PropertiesStore) ReportDir() string {
	return s.reportDir
}

// Set overrides a key for the remainder of the process, e.g. from a CLI flag.
func (s *PropertiesStore) Set(key string, value any) {
	s.v.Set(key, value)
}
