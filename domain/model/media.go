package model

// Media types recognized by the selector and the delivery pipeline.
const (
	MediaTypeVideo   = "video"
	MediaTypeAudio   = "audio"
	MediaTypeImage   = "image"
	MediaTypeUnknown = "unknown"
)

// PlatformUnknown tags records whose source platform could not be resolved.
const PlatformUnknown = "unknown"

// Quality tags the extraction API attaches to video candidates.
const (
	QualityHDNoWatermark = "hd_no_watermark"
	QualityNoWatermark   = "no_watermark"
)

// DefaultExtension returns the file extension used when a candidate of the
// given type does not carry its own.
func DefaultExtension(mediaType string) string {
	switch mediaType {
	case MediaTypeAudio:
		return "mp3"
	case MediaTypeImage:
		return "jpg"
	default:
		return "mp4"
	}
}

// PlatformRule maps a platform name to the URL substrings that identify it.
// Rules are loaded once at startup and are immutable afterwards.
type PlatformRule struct {
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
}

// MediaCandidate is one extractable asset variant returned by the extraction
// API. It only lives for the duration of the selection.
type MediaCandidate struct {
	Type      string `json:"type"`
	Quality   string `json:"quality,omitempty"`
	URL       string `json:"url"`
	Extension string `json:"extension,omitempty"`
}

// MediaInfo is the selection result consumed by the delivery pipeline and
// persistence. Immutable once constructed.
type MediaInfo struct {
	Platform  string `json:"platform"`
	MediaURL  string `json:"media_url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Type      string `json:"type"`
	Extension string `json:"extension"`
}
