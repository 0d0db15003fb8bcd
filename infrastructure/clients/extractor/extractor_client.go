package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/FatihZee/tele-bot/domain/dto"
	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/domain/platform"
	"github.com/FatihZee/tele-bot/domain/repository"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
)

// Config holds the extraction API connection settings.
type Config struct {
	URL     string
	APIKey  string
	APIHost string
}

// ExtractorClient calls the RapidAPI media-extraction endpoint and resolves
// the best candidate from its payload.
type ExtractorClient struct {
	config     *Config
	httpClient *http.Client
	matcher    *platform.Matcher
}

// NewExtractorClient builds the client. The http.Client carries no timeout:
// extraction of long videos routinely takes minutes and the call has no
// deadline of its own.
func NewExtractorClient(config *Config, matcher *platform.Matcher) repository.IExtractor {
	return &ExtractorClient{
		config:     config,
		httpClient: &http.Client{},
		matcher:    matcher,
	}
}

func (c *ExtractorClient) FetchMedia(ctx context.Context, rawURL string) (model.MediaInfo, error) {
	body, err := json.Marshal(dto.ExtractorRequest{URL: rawURL})
	if err != nil {
		return model.MediaInfo{}, fmt.Errorf("%w: encoding request: %w", model.ErrExtractionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return model.MediaInfo{}, fmt.Errorf("%w: building request: %w", model.ErrExtractionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-key", c.config.APIKey)
	req.Header.Set("x-rapidapi-host", c.config.APIHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while calling extraction API")
		return model.MediaInfo{}, fmt.Errorf("%w: %w", model.ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.GetLogger().WithField("status", resp.StatusCode).Error("Extraction API returned unexpected status")
		return model.MediaInfo{}, fmt.Errorf("%w: unexpected status %d", model.ErrExtractionFailed, resp.StatusCode)
	}

	var payload dto.ExtractorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while decoding extraction payload")
		return model.MediaInfo{}, fmt.Errorf("%w: decoding response: %w", model.ErrExtractionFailed, err)
	}

	return SelectMedia(&payload, rawURL, c.matcher)
}
