package media

// BestQuality is the quality token asking for the best streams available.
const BestQuality = "best"

// DefaultContainer is the container separately fetched streams are merged
// in to unless configured otherwise.
const DefaultContainer = "mp4"

// bestAudioFallback pairs the chosen video stream with the best audio stream,
// falling back to the best single file holding both when separate streams
// are unavailable.
const bestAudioFallback = "+bestaudio/best"

// Selection is a resolved quality choice: the format expression handed to the
// engine, and the container the result must be merged in to.
type Selection struct {
	Expression string
	Container  string
}

// BuildFormatExpression maps a quality token to a format-selection expression.
// Any token other than "best" is treated as a video format ID; whether that ID
// exists is only discovered when the engine attempts the download.
func BuildFormatExpression(quality string) string {
	if quality == "" || quality == BestQuality {
		return "bestvideo" + bestAudioFallback
	}

	return quality + bestAudioFallback
}

// Select resolves the quality token, forcing the merge container. An empty
// container falls back to DefaultContainer.
func Select(quality string, container string) Selection {
	if container == "" {
		container = DefaultContainer
	}

	return Selection{Expression: BuildFormatExpression(quality), Container: container}
}
