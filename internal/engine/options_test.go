package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_BaseOptions_Defaults(t *testing.T) {
	opts := Config{ForceIPv4: true, AcceptLanguage: "en-US,en;q=0.9", RestrictFilenames: true}.BaseOptions()

	assert.True(t, opts.ForceIPv4)
	assert.True(t, opts.NoPlaylist)
	assert.True(t, opts.RestrictFilenames)
	if assert.NotNil(t, opts.Proxy, "proxy must be explicitly disabled unless inherited") {
		assert.Equal(t, "", *opts.Proxy)
	}
	assert.Equal(t, DefaultUserAgent, opts.Headers["User-Agent"])
	assert.Equal(t, "en-US,en;q=0.9", opts.Headers["Accept-Language"])
}

func Test_BaseOptions_InheritProxy(t *testing.T) {
	opts := Config{InheritProxy: true, Proxy: "http://ignored:3128", UserAgent: "custom/1.0"}.BaseOptions()

	assert.Nil(t, opts.Proxy)
	assert.Equal(t, "custom/1.0", opts.Headers["User-Agent"])
	_, hasLang := opts.Headers["Accept-Language"]
	assert.False(t, hasLang)
}

func Test_Options_Args(t *testing.T) {
	proxy := ""
	opts := Options{
		ForceIPv4:         true,
		Proxy:             &proxy,
		Headers:           map[string]string{"User-Agent": "ua", "Accept-Language": "en"},
		OutputTemplate:    "/tmp/dl/abc_%(title)s.%(ext)s",
		Format:            "bestvideo+bestaudio/best",
		MergeOutputFormat: "mp4",
		RestrictFilenames: true,
		NoPlaylist:        true,
	}

	expected := []string{
		"--no-warnings",
		"--no-playlist",
		"--force-ipv4",
		"--proxy", "",
		"--add-header", "Accept-Language:en",
		"--add-header", "User-Agent:ua",
		"-f", "bestvideo+bestaudio/best",
		"--merge-output-format", "mp4",
		"-o", "/tmp/dl/abc_%(title)s.%(ext)s",
		"--restrict-filenames",
	}
	assert.Equal(t, expected, opts.args())
}

func Test_Options_Args_ZeroValue(t *testing.T) {
	assert.Equal(t, []string{"--no-warnings"}, Options{}.args())
}
