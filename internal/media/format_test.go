package media

import (
	"math/rand"
	"testing"

	"github.com/hbomb79/Reel/internal/engine"
	"github.com/stretchr/testify/assert"
)

func height(h int) *int { return &h }

func Test_Normalize_DropsLaterDuplicates(t *testing.T) {
	raw := []engine.RawFormat{
		{Height: height(720), FormatID: "22", Ext: "mp4"},
		{Height: height(480), FormatID: "18", Ext: "mp4"},
		{Height: height(720), FormatID: "95", Ext: "webm"},
	}

	expected := []FormatOption{
		{FormatID: "22", Resolution: "720p", Ext: "mp4"},
		{FormatID: "18", Resolution: "480p", Ext: "mp4"},
	}
	assert.Equal(t, expected, Normalize(raw))
}

func Test_Normalize_ExcludesFormatsWithoutHeight(t *testing.T) {
	raw := []engine.RawFormat{
		{FormatID: "140", Ext: "m4a", VCodec: "none"},
		{FormatID: "sb0", Ext: "mhtml", Height: height(0)},
		{FormatID: "137", Height: height(1080)},
	}

	expected := []FormatOption{{FormatID: "137", Resolution: "1080p", Ext: "mp4"}}
	assert.Equal(t, expected, Normalize(raw), "missing ext must default to mp4")
}

func Test_Normalize_SortsDescending(t *testing.T) {
	raw := []engine.RawFormat{
		{Height: height(144), FormatID: "160"},
		{Height: height(2160), FormatID: "313"},
		{Height: height(360), FormatID: "134"},
		{Height: height(1080), FormatID: "137"},
	}

	got := Normalize(raw)
	ids := make([]string, len(got))
	for i, v := range got {
		ids[i] = v.FormatID
	}
	assert.Equal(t, []string{"313", "137", "134", "160"}, ids)
}

func Test_Normalize_EmptyInput(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.NotNil(t, Normalize(nil), "an empty list must serialize as [] rather than null")
}

func Test_SortOptions_UnparseableLabelsLast(t *testing.T) {
	options := []FormatOption{
		{FormatID: "a", Resolution: "audio"},
		{FormatID: "b", Resolution: "480p"},
		{FormatID: "c", Resolution: "-1p"},
		{FormatID: "d", Resolution: "1080p"},
		{FormatID: "e", Resolution: "p"},
	}

	sortOptions(options)

	ids := make([]string, len(options))
	for i, v := range options {
		ids[i] = v.FormatID
	}
	assert.Equal(t, []string{"d", "b", "a", "c", "e"}, ids, "unparseable labels must keep their relative order at the end")
}

// Test_Normalize_Invariants checks the dedup and ordering invariants
// over randomly generated format lists.
func Test_Normalize_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	heights := []int{0, 144, 240, 360, 480, 720, 1080, 1440, 2160}

	for run := 0; run < 200; run++ {
		raw := make([]engine.RawFormat, rng.Intn(30))
		firstSeen := make(map[int]string)
		for i := range raw {
			raw[i] = engine.RawFormat{FormatID: string(rune('A' + i))}
			if rng.Intn(5) > 0 {
				h := heights[rng.Intn(len(heights))]
				raw[i].Height = &h
				if _, ok := firstSeen[h]; !ok && h != 0 {
					firstSeen[h] = raw[i].FormatID
				}
			}
		}

		got := Normalize(raw)
		assert.Len(t, got, len(firstSeen))

		labels := make(map[string]struct{}, len(got))
		for i, opt := range got {
			_, dup := labels[opt.Resolution]
			assert.False(t, dup, "resolution %s listed twice", opt.Resolution)
			labels[opt.Resolution] = struct{}{}

			assert.Equal(t, firstSeen[opt.Rank()], opt.FormatID, "first format for %s must win", opt.Resolution)
			if i > 0 {
				assert.GreaterOrEqual(t, got[i-1].Rank(), opt.Rank())
			}
		}
	}
}
