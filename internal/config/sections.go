package config

// LogConfig defines configuration for logging
type LogConfig struct {
	LogFile       string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogFormat     string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,logformat"`
	LogLevel      string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,loglevel"`
	MaxLogBackups int    `json:"max_log_backups,omitempty" yaml:"max_log_backups,omitempty"`
	MaxLogSizeMB  int    `json:"max_log_size_mb,omitempty" yaml:"max_log_size_mb,omitempty"`
}

// NewDefaultLogConfig creates default log configuration
func NewDefaultLogConfig() LogConfig {
	return LogConfig{
		LogFile:       DefaultLogFile,
		LogFormat:     DefaultLogFormat,
		LogLevel:      DefaultLogLevel,
		MaxLogBackups: DefaultMaxLogBackups,
		MaxLogSizeMB:  DefaultMaxLogSizeMB,
	}
}

// ProberConfig defines configuration for the status prober
type ProberConfig struct {
	TimeoutSecs        int    `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1"`
	MaxRedirects       int    `json:"max_redirects,omitempty" yaml:"max_redirects,omitempty" validate:"omitempty,min=0"`
	UserAgent          string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify,omitempty" yaml:"insecure_skip_verify,omitempty"`
	Proxy              string `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
}

// NewDefaultProberConfig creates default prober configuration
func NewDefaultProberConfig() ProberConfig {
	return ProberConfig{
		TimeoutSecs:  DefaultProberTimeoutSecs,
		MaxRedirects: DefaultProberMaxRedirects,
		UserAgent:    DefaultProberUserAgent,
	}
}

// PipelineConfig defines configuration for the resolution pipeline
type PipelineConfig struct {
	// SiteBaseURL is the absolute base used to construct redirect targets,
	// e.g. https://example.com
	SiteBaseURL    string `json:"site_base_url,omitempty" yaml:"site_base_url,omitempty" validate:"required,url"`
	BatchSize      int    `json:"batch_size,omitempty" yaml:"batch_size,omitempty" validate:"omitempty,min=1"`
	BatchPauseMs   int    `json:"batch_pause_ms,omitempty" yaml:"batch_pause_ms,omitempty" validate:"omitempty,min=0"`
	ErrorStatusMin int    `json:"error_status_min,omitempty" yaml:"error_status_min,omitempty"`
}

// NewDefaultPipelineConfig creates default pipeline configuration
func NewDefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		BatchSize:      DefaultPipelineBatchSize,
		BatchPauseMs:   DefaultPipelineBatchPauseMs,
		ErrorStatusMin: DefaultPipelineErrorStatusMin,
	}
}

// MatcherConfig defines configuration for the best-match export threshold
type MatcherConfig struct {
	MinExportPercent float64 `json:"min_export_percent,omitempty" yaml:"min_export_percent,omitempty" validate:"omitempty,min=0,max=100"`
}

// NewDefaultMatcherConfig creates default matcher configuration
func NewDefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		MinExportPercent: DefaultMatcherMinExportPercent,
	}
}

// StoreConfig defines configuration for the persistent store
type StoreConfig struct {
	SQLiteDBPath string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty" validate:"required"`
}

// NewDefaultStoreConfig creates default store configuration
func NewDefaultStoreConfig() StoreConfig {
	return StoreConfig{
		SQLiteDBPath: DefaultStoreSQLitePath,
	}
}

// ExportConfig defines configuration for result export and delivery
type ExportConfig struct {
	OutputPath  string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	EndpointURL string `json:"endpoint_url,omitempty" yaml:"endpoint_url,omitempty" validate:"omitempty,url"`
	ChunkSize   int    `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultExportConfig creates default export configuration
func NewDefaultExportConfig() ExportConfig {
	return ExportConfig{
		OutputPath: DefaultExportOutputPath,
		ChunkSize:  DefaultExportChunkSize,
	}
}
