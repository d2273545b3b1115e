package logger_test

import (
	"bytes"
	"testing"

	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func Test_ParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logger.LogLevel
		wantErr  bool
	}{
		{input: "info", expected: logger.INFO},
		{input: "DEBUG", expected: logger.DEBUG},
		{input: " warn ", expected: logger.WARNING},
		{input: "error", expected: logger.ERROR},
		{input: "loud", expected: logger.INFO, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lvl, err := logger.ParseLevel(tt.input)
			assert.Equal(t, tt.expected, lvl)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_MinLevel_FiltersMessages(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)
	logger.SetMinLoggingLevel(logger.WARNING.Level())
	t.Cleanup(func() {
		logger.SetMinLoggingLevel(logger.INFO.Level())
	})

	log := logger.Get("Test")
	log.Infof("hidden %d\n", 1)
	log.Errorf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[Test]")
	assert.Contains(t, out, "shown 2\n")
}
