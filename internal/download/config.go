package download

import "time"

// Config contains the options controlling how downloads are requested
// from the engine.
type Config struct {
	// The container separately downloaded streams are merged in to.
	MergeFormat string `toml:"merge_format" yaml:"merge_format" env:"DOWNLOAD_MERGE_FORMAT" env-default:"mp4"`

	// Upper bounds for a single engine invocation. The request context
	// cancels the invocation earlier if the client goes away. Zero
	// disables the bound.
	InfoTimeoutSeconds     int `toml:"info_timeout_seconds" yaml:"info_timeout_seconds" env:"DOWNLOAD_INFO_TIMEOUT_SECONDS" env-default:"60"`
	DownloadTimeoutSeconds int `toml:"download_timeout_seconds" yaml:"download_timeout_seconds" env:"DOWNLOAD_TIMEOUT_SECONDS" env-default:"900"`
}

func (config *Config) InfoTimeout() time.Duration {
	return time.Duration(config.InfoTimeoutSeconds) * time.Second
}

func (config *Config) DownloadTimeout() time.Duration {
	return time.Duration(config.DownloadTimeoutSeconds) * time.Second
}
