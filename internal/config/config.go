package config

const (
	// Prober Defaults
	DefaultProberTimeoutSecs  = 10
	DefaultProberMaxRedirects = 10
	DefaultProberUserAgent    = "redirects-frizar/1.0"

	// Pipeline Defaults
	DefaultPipelineBatchSize      = 10
	DefaultPipelineBatchPauseMs   = 100
	DefaultPipelineErrorStatusMin = 400

	// Matcher Defaults
	DefaultMatcherMinExportPercent = 50.0

	// Store Defaults
	DefaultStoreSQLitePath = "database/redirects.db"

	// Export Defaults
	DefaultExportOutputPath = "redirects.json"
	DefaultExportChunkSize  = 100

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3
)

// GlobalConfig aggregates all per-concern configuration sections.
type GlobalConfig struct {
	LogConfig      LogConfig      `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	ProberConfig   ProberConfig   `json:"prober_config,omitempty" yaml:"prober_config,omitempty"`
	PipelineConfig PipelineConfig `json:"pipeline_config,omitempty" yaml:"pipeline_config,omitempty"`
	MatcherConfig  MatcherConfig  `json:"matcher_config,omitempty" yaml:"matcher_config,omitempty"`
	StoreConfig    StoreConfig    `json:"store_config,omitempty" yaml:"store_config,omitempty"`
	ExportConfig   ExportConfig   `json:"export_config,omitempty" yaml:"export_config,omitempty"`
}

// NewDefaultGlobalConfig returns a GlobalConfig populated with defaults.
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:      NewDefaultLogConfig(),
		ProberConfig:   NewDefaultProberConfig(),
		PipelineConfig: NewDefaultPipelineConfig(),
		MatcherConfig:  NewDefaultMatcherConfig(),
		StoreConfig:    NewDefaultStoreConfig(),
		ExportConfig:   NewDefaultExportConfig(),
	}
}
