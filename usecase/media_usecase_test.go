package usecase_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/domain/platform"
	"github.com/FatihZee/tele-bot/infrastructure/clients/extractor"
	"github.com/FatihZee/tele-bot/infrastructure/downloader"
	"github.com/FatihZee/tele-bot/usecase"
)

// Mock implementations
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) FetchMedia(ctx context.Context, rawURL string) (model.MediaInfo, error) {
	args := m.Called(ctx, rawURL)
	return args.Get(0).(model.MediaInfo), args.Error(1)
}

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Create(ctx context.Context, record *model.VideoRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockVideoRepository) List(ctx context.Context, limit int64) ([]model.VideoRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VideoRecord), args.Error(1)
}

func (m *MockVideoRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockDelivery struct {
	mock.Mock
}

func (m *MockDelivery) Deliver(ctx context.Context, sender usecase.MediaSender, info model.MediaInfo) error {
	args := m.Called(ctx, sender, info)
	return args.Error(0)
}

type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) RecordDownload(ctx context.Context, platform string) error {
	args := m.Called(ctx, platform)
	return args.Error(0)
}

func (m *MockStatsCache) TotalsByPlatform(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

type MockDownloadPubSub struct {
	mock.Mock
}

func (m *MockDownloadPubSub) PublishDownload(ctx context.Context, event model.DownloadEvent) (string, error) {
	args := m.Called(ctx, event)
	return args.String(0), args.Error(1)
}

type MockDownloadServiceBus struct {
	mock.Mock
}

func (m *MockDownloadServiceBus) SendDownloadEvent(ctx context.Context, event model.DownloadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newMatcher(t *testing.T) *platform.Matcher {
	t.Helper()
	m, err := platform.NewMatcher([]model.PlatformRule{
		{Name: "tiktok", Patterns: []string{"tiktok.com"}},
		{Name: "instagram", Patterns: []string{"instagram.com"}},
		{Name: "facebook", Patterns: []string{"facebook.com", "fb.watch"}},
		{Name: "youtube", Patterns: []string{"youtube.com", "youtu.be"}},
	})
	require.NoError(t, err)
	return m
}

func TestMediaUsecase_ProcessLink_UnsupportedPlatform(t *testing.T) {
	mockSender := new(MockMediaSender)
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockVideoRepository)
	mockDelivery := new(MockDelivery)
	mockStats := new(MockStatsCache)
	mockPubSub := new(MockDownloadPubSub)
	mockBus := new(MockDownloadServiceBus)

	mockSender.On("Notify", "This link isn't supported yet. I can download from: facebook, instagram, tiktok, youtube").
		Return(nil).
		Once()
	// No extraction, persistence or delivery may happen

	mediaUsecase := usecase.NewMediaUsecase(newMatcher(t), mockExtractor, mockRepo, mockDelivery, mockStats, mockPubSub, mockBus)

	err := mediaUsecase.ProcessLink(context.Background(), mockSender, "https://vimeo.com/12345")
	require.NoError(t, err)

	mockSender.AssertExpectations(t)
	mockExtractor.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockDelivery.AssertExpectations(t)
}

func TestMediaUsecase_ProcessLink_ExtractionFailure(t *testing.T) {
	mockSender := new(MockMediaSender)
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockVideoRepository)
	mockDelivery := new(MockDelivery)
	mockStats := new(MockStatsCache)
	mockPubSub := new(MockDownloadPubSub)
	mockBus := new(MockDownloadServiceBus)

	mockExtractor.On("FetchMedia", mock.Anything, "https://vt.tiktok.com/broken/").
		Return(model.MediaInfo{}, model.ErrExtractionFailed).
		Once()
	mockSender.On("Notify", "Sorry, extracting media from tiktok failed. Please try again later.").
		Return(nil).
		Once()
	// Nothing is persisted when extraction fails

	mediaUsecase := usecase.NewMediaUsecase(newMatcher(t), mockExtractor, mockRepo, mockDelivery, mockStats, mockPubSub, mockBus)

	err := mediaUsecase.ProcessLink(context.Background(), mockSender, "https://vt.tiktok.com/broken/")
	require.ErrorIs(t, err, model.ErrExtractionFailed)

	mockSender.AssertExpectations(t)
	mockExtractor.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockDelivery.AssertExpectations(t)
}

func TestMediaUsecase_ProcessLink_MediaNotFound(t *testing.T) {
	mockSender := new(MockMediaSender)
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockVideoRepository)
	mockDelivery := new(MockDelivery)
	mockStats := new(MockStatsCache)
	mockPubSub := new(MockDownloadPubSub)
	mockBus := new(MockDownloadServiceBus)

	mockExtractor.On("FetchMedia", mock.Anything, "https://www.instagram.com/p/empty/").
		Return(model.MediaInfo{}, model.ErrMediaNotFound).
		Once()
	mockSender.On("Notify", "I couldn't find any downloadable media in that instagram link.").
		Return(nil).
		Once()

	mediaUsecase := usecase.NewMediaUsecase(newMatcher(t), mockExtractor, mockRepo, mockDelivery, mockStats, mockPubSub, mockBus)

	err := mediaUsecase.ProcessLink(context.Background(), mockSender, "https://www.instagram.com/p/empty/")
	require.ErrorIs(t, err, model.ErrMediaNotFound)

	mockSender.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestMediaUsecase_ProcessLink_PersistenceFailureStopsDelivery(t *testing.T) {
	mockSender := new(MockMediaSender)
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockVideoRepository)
	mockDelivery := new(MockDelivery)
	mockStats := new(MockStatsCache)
	mockPubSub := new(MockDownloadPubSub)
	mockBus := new(MockDownloadServiceBus)

	info := model.MediaInfo{
		Platform:  "tiktok",
		MediaURL:  "https://cdn/v.mp4",
		Type:      "video",
		Extension: "mp4",
	}
	mockExtractor.On("FetchMedia", mock.Anything, "https://vt.tiktok.com/ok/").
		Return(info, nil).
		Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.VideoRecord")).
		Return(assert.AnError).
		Once()
	mockSender.On("Notify", "Something went wrong on our side. Please try again later.").
		Return(nil).
		Once()
	// Delivery and integrations may not run

	mediaUsecase := usecase.NewMediaUsecase(newMatcher(t), mockExtractor, mockRepo, mockDelivery, mockStats, mockPubSub, mockBus)

	err := mediaUsecase.ProcessLink(context.Background(), mockSender, "https://vt.tiktok.com/ok/")
	require.Error(t, err)

	mockSender.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockDelivery.AssertExpectations(t)
	mockStats.AssertExpectations(t)
}

func TestMediaUsecase_ProcessLink_Success(t *testing.T) {
	mockSender := new(MockMediaSender)
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockVideoRepository)
	mockDelivery := new(MockDelivery)
	mockStats := new(MockStatsCache)
	mockPubSub := new(MockDownloadPubSub)
	mockBus := new(MockDownloadServiceBus)

	info := model.MediaInfo{
		Platform:  "tiktok",
		MediaURL:  "https://cdn/v.mp4",
		Thumbnail: "https://cdn/t.jpg",
		Type:      "video",
		Extension: "mp4",
	}
	mockExtractor.On("FetchMedia", mock.Anything, "https://vt.tiktok.com/ok/").
		Return(info, nil).
		Once()

	var created *model.VideoRecord
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.VideoRecord")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.VideoRecord)
		}).
		Return(nil).
		Once()
	mockDelivery.On("Deliver", mock.Anything, mockSender, info).
		Return(nil).
		Once()
	mockStats.On("RecordDownload", mock.Anything, "tiktok").
		Return(nil).
		Once()
	mockPubSub.On("PublishDownload", mock.Anything, mock.AnythingOfType("model.DownloadEvent")).
		Return("message-id", nil).
		Once()
	mockBus.On("SendDownloadEvent", mock.Anything, mock.AnythingOfType("model.DownloadEvent")).
		Return(nil).
		Once()

	var broadcasted []model.DownloadEvent
	mediaUsecase := usecase.NewMediaUsecase(newMatcher(t), mockExtractor, mockRepo, mockDelivery, mockStats, mockPubSub, mockBus).
		WithBroadcaster(func(event model.DownloadEvent) { broadcasted = append(broadcasted, event) })

	err := mediaUsecase.ProcessLink(context.Background(), mockSender, "https://vt.tiktok.com/ok/")
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "tiktok", created.Platform)
	assert.Equal(t, "https://cdn/v.mp4", created.VideoURL)
	assert.Equal(t, "https://cdn/t.jpg", created.VideoThumbnail)
	assert.Equal(t, "https://vt.tiktok.com/ok/", created.OriginalURL)
	assert.False(t, created.DateAdded.IsZero())

	require.Len(t, broadcasted, 1)
	assert.Equal(t, "tiktok", broadcasted[0].Platform)
	assert.Equal(t, "video", broadcasted[0].MediaType)
	assert.Equal(t, "https://vt.tiktok.com/ok/", broadcasted[0].OriginalURL)
	assert.False(t, broadcasted[0].OccurredAt.IsZero())

	mockSender.AssertExpectations(t)
	mockExtractor.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockDelivery.AssertExpectations(t)
	mockStats.AssertExpectations(t)
	mockPubSub.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestMediaUsecase_ProcessLink_DeliveryFailureSkipsIntegrations(t *testing.T) {
	mockSender := new(MockMediaSender)
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockVideoRepository)
	mockDelivery := new(MockDelivery)
	mockStats := new(MockStatsCache)
	mockPubSub := new(MockDownloadPubSub)
	mockBus := new(MockDownloadServiceBus)

	info := model.MediaInfo{Platform: "tiktok", MediaURL: "https://cdn/v.mp4", Type: "video", Extension: "mp4"}
	mockExtractor.On("FetchMedia", mock.Anything, mock.AnythingOfType("string")).
		Return(info, nil).
		Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.VideoRecord")).
		Return(nil).
		Once()
	mockDelivery.On("Deliver", mock.Anything, mockSender, info).
		Return(assert.AnError).
		Once()
	// No stats or events after a failed delivery

	mediaUsecase := usecase.NewMediaUsecase(newMatcher(t), mockExtractor, mockRepo, mockDelivery, mockStats, mockPubSub, mockBus).
		WithBroadcaster(func(event model.DownloadEvent) {
			t.Errorf("no event may be broadcast after a failed delivery, got %+v", event)
		})

	err := mediaUsecase.ProcessLink(context.Background(), mockSender, "https://vt.tiktok.com/ok/")
	require.Error(t, err)

	mockStats.AssertExpectations(t)
	mockPubSub.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

// TestMediaUsecase_ProcessLink_EndToEnd runs a tiktok link through the real
// matcher, extraction client, selector and delivery pipeline against local
// test servers; only the conversation, the store and the integrations are
// mocked.
func TestMediaUsecase_ProcessLink_EndToEnd(t *testing.T) {
	videoBytes := []byte("binary video payload")

	mediaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(videoBytes)
	}))
	defer mediaSrv.Close()

	extractorSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"source": "tiktok",
			"thumbnail": "https://cdn/t.jpg",
			"medias": [
				{"type": "audio", "url": "` + mediaSrv.URL + `/a.mp3", "extension": "mp3"},
				{"type": "video", "quality": "hd_no_watermark", "url": "` + mediaSrv.URL + `/v.mp4", "extension": "mp4"}
			]
		}`))
	}))
	defer extractorSrv.Close()

	matcher := newMatcher(t)
	client := extractor.NewExtractorClient(&extractor.Config{URL: extractorSrv.URL, APIKey: "k", APIHost: "h"}, matcher)

	tempDir := t.TempDir()
	delivery := usecase.NewDeliveryUsecase(downloader.NewDownloader(), tempDir)

	mockSender := new(MockMediaSender)
	mockSender.On("Notify", "Got it! Downloading your video from tiktok...").
		Return(nil).
		Once()
	mockSender.On("SendVideo", mock.AnythingOfType("string"), "Downloaded from tiktok").
		Run(func(args mock.Arguments) {
			body, err := os.ReadFile(args.String(0))
			require.NoError(t, err)
			assert.Equal(t, videoBytes, body, "the delivered file must hold the downloaded bytes")
		}).
		Return(nil).
		Once()

	var created *model.VideoRecord
	mockRepo := new(MockVideoRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.VideoRecord")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.VideoRecord)
		}).
		Return(nil).
		Once()

	mockStats := new(MockStatsCache)
	mockStats.On("RecordDownload", mock.Anything, "tiktok").Return(nil).Once()
	mockPubSub := new(MockDownloadPubSub)
	mockPubSub.On("PublishDownload", mock.Anything, mock.AnythingOfType("model.DownloadEvent")).Return("id", nil).Once()
	mockBus := new(MockDownloadServiceBus)
	mockBus.On("SendDownloadEvent", mock.Anything, mock.AnythingOfType("model.DownloadEvent")).Return(nil).Once()

	mediaUsecase := usecase.NewMediaUsecase(matcher, client, mockRepo, delivery, mockStats, mockPubSub, mockBus)

	err := mediaUsecase.ProcessLink(context.Background(), mockSender, "https://vt.tiktok.com/ZS2kQtF/")
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "tiktok", created.Platform)
	assert.Equal(t, mediaSrv.URL+"/v.mp4", created.VideoURL, "the hd_no_watermark candidate must be selected")
	assert.Equal(t, "https://vt.tiktok.com/ZS2kQtF/", created.OriginalURL)

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp file may survive the relay")

	mockSender.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockStats.AssertExpectations(t)
	mockPubSub.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}
