package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

type (
	// RawFormat is a single entry of the engine's format list. Height
	// is nil for audio-only and otherwise unresolvable formats.
	RawFormat struct {
		FormatID string `json:"format_id"`
		Ext      string `json:"ext"`
		Height   *int   `json:"height"`
		VCodec   string `json:"vcodec"`
		ACodec   string `json:"acodec"`
	}

	RequestedDownload struct {
		Filepath string `json:"filepath"`
	}

	// Metadata mirrors the fields of the engine's JSON dump that Reel uses.
	Metadata struct {
		ID                 string              `json:"id"`
		Title              string              `json:"title"`
		Thumbnail          string              `json:"thumbnail"`
		Duration           *float64            `json:"duration"`
		WebpageURL         string              `json:"webpage_url"`
		Formats            []RawFormat         `json:"formats"`
		Filename           string              `json:"_filename"`
		RequestedDownloads []RequestedDownload `json:"requested_downloads"`
	}
)

var errEmptyOutput = errors.New("engine produced no metadata")

// decodeMetadata parses the engine's single JSON document. The engine is
// loose with its types across extractors (heights as strings, durations
// as floats), so the document is decoded to a generic map first and then
// weakly decoded in to the typed Metadata.
func decodeMetadata(output []byte) (*Metadata, error) {
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		return nil, errEmptyOutput
	}

	// Only the last line matters if anything was printed before the dump
	if idx := bytes.LastIndexByte(output, '\n'); idx >= 0 && !json.Valid(output) {
		output = output[idx+1:]
	}

	var raw map[string]any
	if err := json.Unmarshal(output, &raw); err != nil {
		return nil, fmt.Errorf("parse engine JSON: %w", err)
	}

	var meta Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &meta,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode engine JSON: %w", err)
	}

	return &meta, nil
}

// OutputPath returns the path the engine reports for the downloaded file. The
// per-download path is authoritative (it reflects the merged container), the
// prepared filename is used when it is absent.
func (meta *Metadata) OutputPath() string {
	for _, dl := range meta.RequestedDownloads {
		if dl.Filepath != "" {
			return dl.Filepath
		}
	}

	return meta.Filename
}
