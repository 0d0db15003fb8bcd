package dto

import "github.com/FatihZee/tele-bot/domain/model"

// ExtractorRequest is the body posted to the extraction API.
type ExtractorRequest struct {
	URL string `json:"url"`
}

// ResponseShape tags which of the two payload layouts an extraction
// response matched.
type ResponseShape int

const (
	ShapeInvalid ResponseShape = iota
	ShapeMediaList
	ShapeSingleURL
)

// ExtractorResponse covers both payload layouts the extraction API returns:
// a list of media descriptors with a top-level thumbnail and source, or a
// single bare download URL.
type ExtractorResponse struct {
	Source    string                 `json:"source,omitempty"`
	Title     string                 `json:"title,omitempty"`
	Thumbnail string                 `json:"thumbnail,omitempty"`
	URL       string                 `json:"url,omitempty"`
	Medias    []model.MediaCandidate `json:"medias,omitempty"`
}

// Shape classifies the payload. A media list takes precedence when both
// layouts are present; ShapeInvalid means no field of the payload is usable.
func (r *ExtractorResponse) Shape() ResponseShape {
	if len(r.Medias) > 0 {
		return ShapeMediaList
	}
	if r.URL != "" {
		return ShapeSingleURL
	}
	return ShapeInvalid
}
