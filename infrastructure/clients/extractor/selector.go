package extractor

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/FatihZee/tele-bot/domain/dto"
	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/domain/platform"
)

// selectionRule pairs a predicate with the media type the selected candidate
// is delivered as.
type selectionRule struct {
	resultType string
	match      func(model.MediaCandidate) bool
}

// selectionRules is evaluated in order, first match wins; within a rule,
// candidates keep their payload order.
var selectionRules = []selectionRule{
	{model.MediaTypeVideo, func(c model.MediaCandidate) bool {
		return c.Type == model.MediaTypeVideo && c.Quality == model.QualityHDNoWatermark
	}},
	{model.MediaTypeVideo, func(c model.MediaCandidate) bool {
		return c.Type == model.MediaTypeVideo && c.Quality == model.QualityNoWatermark
	}},
	{model.MediaTypeVideo, func(c model.MediaCandidate) bool {
		return c.Type == model.MediaTypeVideo
	}},
	{model.MediaTypeAudio, func(c model.MediaCandidate) bool {
		return c.Type == model.MediaTypeAudio
	}},
	{model.MediaTypeImage, func(c model.MediaCandidate) bool {
		return c.Type == model.MediaTypeImage || c.Extension == "jpg" || c.Extension == "png"
	}},
}

// SelectMedia resolves the payload into the single MediaInfo the relay will
// deliver. ErrMediaNotFound means the payload was well formed but held no
// usable candidate; any malformed payload is an extraction failure.
func SelectMedia(payload *dto.ExtractorResponse, originalURL string, matcher *platform.Matcher) (model.MediaInfo, error) {
	switch payload.Shape() {
	case dto.ShapeMediaList:
		return selectFromCandidates(payload, originalURL, matcher)
	case dto.ShapeSingleURL:
		return selectFromBareURL(payload, originalURL, matcher), nil
	default:
		return model.MediaInfo{}, fmt.Errorf("%w: payload matches no known shape", model.ErrExtractionFailed)
	}
}

func selectFromCandidates(payload *dto.ExtractorResponse, originalURL string, matcher *platform.Matcher) (model.MediaInfo, error) {
	for _, rule := range selectionRules {
		for _, candidate := range payload.Medias {
			if candidate.URL == "" || !rule.match(candidate) {
				continue
			}
			ext := candidate.Extension
			if ext == "" {
				ext = model.DefaultExtension(rule.resultType)
			}
			return model.MediaInfo{
				Platform:  resolvePlatform(payload.Source, originalURL, matcher),
				MediaURL:  candidate.URL,
				Thumbnail: payload.Thumbnail,
				Type:      rule.resultType,
				Extension: ext,
			}, nil
		}
	}
	return model.MediaInfo{}, model.ErrMediaNotFound
}

func selectFromBareURL(payload *dto.ExtractorResponse, originalURL string, matcher *platform.Matcher) model.MediaInfo {
	mediaType, ext := inferTypeFromURL(payload.URL)
	return model.MediaInfo{
		Platform:  resolvePlatform(payload.Source, originalURL, matcher),
		MediaURL:  payload.URL,
		Thumbnail: payload.Thumbnail,
		Type:      mediaType,
		Extension: ext,
	}
}

// inferTypeFromURL classifies a bare download URL by the trailing extension
// of its path. Anything unrecognized is treated as video/mp4.
func inferTypeFromURL(rawURL string) (string, string) {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	switch ext {
	case "mp3", "wav", "ogg":
		return model.MediaTypeAudio, ext
	case "jpg", "jpeg", "png", "gif":
		return model.MediaTypeImage, ext
	}
	return model.MediaTypeVideo, model.DefaultExtension(model.MediaTypeVideo)
}

func resolvePlatform(source, originalURL string, matcher *platform.Matcher) string {
	if source != "" {
		return source
	}
	if matcher != nil {
		if name, ok := matcher.Identify(originalURL); ok {
			return name
		}
	}
	return model.PlatformUnknown
}
