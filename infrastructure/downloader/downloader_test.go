package downloader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FatihZee/tele-bot/infrastructure/downloader"
)

func TestDownloader_FetchToFile(t *testing.T) {
	payload := []byte("fake mp4 bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "video_1.mp4")
	d := downloader.NewDownloader()

	err := d.FetchToFile(context.Background(), srv.URL, dest)
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDownloader_FetchToFile_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "video_2.mp4")
	d := downloader.NewDownloader()

	err := d.FetchToFile(context.Background(), srv.URL, dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "no file should be created on a failed download")
}

func TestDownloader_FetchToFile_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	dest := filepath.Join(t.TempDir(), "video_3.mp4")
	d := downloader.NewDownloader()

	err := d.FetchToFile(context.Background(), srv.URL, dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloader_FetchToFile_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "video_4.mp4")
	d := downloader.NewDownloader()

	err := d.FetchToFile(ctx, srv.URL, dest)
	require.Error(t, err)
}
