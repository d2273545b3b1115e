package media_test

import (
	"testing"

	"github.com/hbomb79/Reel/internal/media"
	"github.com/stretchr/testify/assert"
)

func Test_BuildFormatExpression(t *testing.T) {
	tests := []struct {
		quality  string
		expected string
	}{
		{quality: "best", expected: "bestvideo+bestaudio/best"},
		{quality: "", expected: "bestvideo+bestaudio/best"},
		{quality: "137", expected: "137+bestaudio/best"},
		{quality: "hls-720p", expected: "hls-720p+bestaudio/best"},
	}

	for _, tt := range tests {
		t.Run(tt.quality, func(t *testing.T) {
			assert.Equal(t, tt.expected, media.BuildFormatExpression(tt.quality))
		})
	}
}

func Test_Select_ForcesSameContainer(t *testing.T) {
	best := media.Select("best", "")
	specific := media.Select("137", "")

	assert.NotEqual(t, best.Expression, specific.Expression)
	assert.Equal(t, media.DefaultContainer, best.Container)
	assert.Equal(t, best.Container, specific.Container)

	assert.Equal(t, "mkv", media.Select("137", "mkv").Container)
}
