package media

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hbomb79/Reel/internal/engine"
)

const defaultExt = "mp4"

// Normalize converts the engine's raw format list in to a deduplicated list
// of quality options, ordered from highest resolution to lowest.
//
// Formats without a height (audio-only or malformed entries) are dropped. The
// first format seen for a given resolution wins, so the engine's enumeration
// order decides which encoding variant is offered for each tier; this is
// not a "best variant per resolution" selection.
func Normalize(raw []engine.RawFormat) []FormatOption {
	options := make([]FormatOption, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, f := range raw {
		if f.Height == nil || *f.Height == 0 {
			continue
		}

		label := fmt.Sprintf("%dp", *f.Height)
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}

		ext := f.Ext
		if ext == "" {
			ext = defaultExt
		}

		options = append(options, FormatOption{FormatID: f.FormatID, Resolution: label, Ext: ext})
	}

	sortOptions(options)
	return options
}

// sortOptions orders the options by descending rank. The sort is stable so
// options of equal rank (including all unparseable labels) keep the order
// the engine gave them.
func sortOptions(options []FormatOption) {
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Rank() > options[j].Rank()
	})
}

// Rank is the numeric height encoded in the resolution label, or 0 when
// the label is not of the form "<digits>p".
func (opt FormatOption) Rank() int {
	n, err := strconv.Atoi(strings.TrimSuffix(opt.Resolution, "p"))
	if err != nil || n < 0 {
		return 0
	}

	return n
}
