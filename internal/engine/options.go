package engine

import (
	"sort"
)

// DefaultUserAgent is a mobile Safari identity. Extraction against sites that
// are hostile to automation fails noticeably less often with it.
const DefaultUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"

// Config holds the engine settings which apply to every invocation.
type Config struct {
	BinPath           string `toml:"bin_path" yaml:"bin_path" env:"ENGINE_BIN_PATH" env-default:"yt-dlp"`
	ForceIPv4         bool   `toml:"force_ipv4" yaml:"force_ipv4" env:"ENGINE_FORCE_IPV4" env-default:"true"`
	InheritProxy      bool   `toml:"inherit_proxy" yaml:"inherit_proxy" env:"ENGINE_INHERIT_PROXY" env-default:"false"`
	Proxy             string `toml:"proxy" yaml:"proxy" env:"ENGINE_PROXY"`
	UserAgent         string `toml:"user_agent" yaml:"user_agent" env:"ENGINE_USER_AGENT"`
	AcceptLanguage    string `toml:"accept_language" yaml:"accept_language" env:"ENGINE_ACCEPT_LANGUAGE" env-default:"en-US,en;q=0.9"`
	RestrictFilenames bool   `toml:"restrict_filenames" yaml:"restrict_filenames" env:"ENGINE_RESTRICT_FILENAMES" env-default:"true"`
}

// Options is the typed set of switches understood by the engine. Fields
// left at their zero value are not passed on.
type Options struct {
	// ForceIPv4 restricts all connections to IPv4.
	ForceIPv4 bool

	// Proxy overrides the proxy used by the engine. A nil Proxy leaves
	// the engine to pick up any ambient proxy configuration, whereas an
	// empty string explicitly disables proxying.
	Proxy *string

	// Headers are sent with every request the engine makes (User-Agent,
	// Accept-Language, ...).
	Headers map[string]string

	// OutputTemplate is the engine output template, e.g. /dl/abc_%(title)s.%(ext)s
	OutputTemplate string

	// Format is a format-selection expression, see media.BuildFormatExpression.
	Format string

	// MergeOutputFormat is the container separately fetched streams are merged into.
	MergeOutputFormat string

	// RestrictFilenames limits output names to ASCII without spaces or shell
	// specials, keeping them safe to use in a URL path.
	RestrictFilenames bool

	NoPlaylist bool
}

// BaseOptions returns the network and identity options derived from
// the config. Callers add the download specific fields on top.
func (config Config) BaseOptions() Options {
	opts := Options{
		ForceIPv4:         config.ForceIPv4,
		Headers:           make(map[string]string),
		RestrictFilenames: config.RestrictFilenames,
		NoPlaylist:        true,
	}

	if !config.InheritProxy {
		proxy := config.Proxy
		opts.Proxy = &proxy
	}

	opts.Headers["User-Agent"] = DefaultUserAgent
	if config.UserAgent != "" {
		opts.Headers["User-Agent"] = config.UserAgent
	}
	if config.AcceptLanguage != "" {
		opts.Headers["Accept-Language"] = config.AcceptLanguage
	}

	return opts
}

// args converts the options to command line arguments. Headers are emitted
// in key order so the resulting command line is deterministic.
func (opts Options) args() []string {
	args := []string{"--no-warnings"}
	if opts.NoPlaylist {
		args = append(args, "--no-playlist")
	}
	if opts.ForceIPv4 {
		args = append(args, "--force-ipv4")
	}
	if opts.Proxy != nil {
		args = append(args, "--proxy", *opts.Proxy)
	}

	keys := make([]string, 0, len(opts.Headers))
	for k := range opts.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--add-header", k+":"+opts.Headers[k])
	}

	if opts.Format != "" {
		args = append(args, "-f", opts.Format)
	}
	if opts.MergeOutputFormat != "" {
		args = append(args, "--merge-output-format", opts.MergeOutputFormat)
	}
	if opts.OutputTemplate != "" {
		args = append(args, "-o", opts.OutputTemplate)
	}
	if opts.RestrictFilenames {
		args = append(args, "--restrict-filenames")
	}

	return args
}
