package config

import (
	"strconv"
	"strings"
)

// Configuration keys read from config.properties.
const (
	KeyBrowser        = "browser"
	KeyHeadless       = "headless"
	KeyMaximizeWindow = "maximize.window"
	KeyRetryCount     = "retry.count"
	KeyBaseURL        = "base.url"
	KeyReportDir      = "report.dir"
	KeyName           = "name"
	KeyScreenWidth    = "screen.width"
	KeyScreenHeight   = "screen.height"
	KeyTimeoutMs      = "timeout.ms"
	KeyLogDir         = "log.dir"
	KeyLogLevel       = "log.level"
)

const (
	// DefaultPath is where the properties file lives when no path is given.
	DefaultPath = "src/test/resources/config.properties"

	// EnvPrefix prefixes environment overrides, e.g. POM_BROWSER or POM_MAXIMIZE_WINDOW.
	EnvPrefix = "POM"

	defaultBrowser    = "chrome"
	defaultRetryCount = 1
	defaultReportDir  = "reports"
	defaultLogLevel   = "info"

	// runDirLayout formats the timestamp of a run's report folder.
	runDirLayout = "20060102_150405"
)

// Source is a read-only key-value view of the framework configuration.
// It is read once per process; implementations must be safe for concurrent reads.
type Source interface {
	// Get returns the raw value for key, or "" if unset.
	Get(key string) string

	// GetBool parses the value for key as a boolean. Unset or malformed values are false.
	GetBool(key string) bool

	// GetInt parses the value for key as an integer, returning def when unset or malformed.
	GetInt(key string, def int) int

	// ReportDir returns the timestamped report folder for this run.
	ReportDir() string
}

// MapSource is an in-memory Source, mostly useful in tests and for CLI overrides.
type MapSource struct {
	Values map[string]string
	RunDir string
}

// NewMapSource returns a MapSource over a copy of values.
func NewMapSource(values map[string]string) *MapSource {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &MapSource{Values: copied}
}

// Get returns the raw value for key.
func (m *MapSource) Get(key string) string {
	return m.Values[key]
}

// GetBool parses the value for key as a boolean.
func (m *MapSource) GetBool(key string) bool {
	return parseBool(m.Get(key))
}

// GetInt parses the value for key as an integer.
func (m *MapSource) GetInt(key string, def int) int {
	return parseInt(m.Get(key), def)
}

// ReportDir returns RunDir, or a run folder under report.dir when RunDir is empty.
func (m *MapSource) ReportDir() string {
	if m.RunDir != "" {
		return m.RunDir
	}
	base := m.Get(KeyReportDir)
	if base == "" {
		base = defaultReportDir
	}
	return base
}

// parseBool mirrors the lenient properties convention: only "true" (any case) is true.
func parseBool(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

func parseInt(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
