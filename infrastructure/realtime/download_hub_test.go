package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FatihZee/tele-bot/domain/model"
)

func TestHub_BroadcastDownload_FansOut(t *testing.T) {
	hub := NewDownloadHub()
	first := make(chan model.DownloadEvent, 1)
	second := make(chan model.DownloadEvent, 1)
	hub.addSubscriber(first)
	hub.addSubscriber(second)
	defer hub.removeSubscriber(first)
	defer hub.removeSubscriber(second)

	hub.BroadcastDownload(model.DownloadEvent{Platform: "tiktok", MediaType: "video"})

	assert.Equal(t, "tiktok", (<-first).Platform)
	assert.Equal(t, "tiktok", (<-second).Platform)
}

func TestHub_BroadcastDownload_DropsWhenSubscriberIsFull(t *testing.T) {
	hub := NewDownloadHub()
	ch := make(chan model.DownloadEvent, 1)
	hub.addSubscriber(ch)
	defer hub.removeSubscriber(ch)

	hub.BroadcastDownload(model.DownloadEvent{Platform: "first"})
	hub.BroadcastDownload(model.DownloadEvent{Platform: "second"})

	assert.Equal(t, "first", (<-ch).Platform)
	select {
	case evt := <-ch:
		t.Fatalf("expected the second event to be dropped, got %+v", evt)
	default:
	}
}

func TestHub_RemoveSubscriber_ClosesChannel(t *testing.T) {
	hub := NewDownloadHub()
	ch := make(chan model.DownloadEvent, 1)
	hub.addSubscriber(ch)
	hub.removeSubscriber(ch)

	_, open := <-ch
	assert.False(t, open)

	// Broadcasting after removal must not panic
	hub.BroadcastDownload(model.DownloadEvent{Platform: "tiktok"})
}

func TestHub_ServeStreamsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewDownloadHub()
	router := gin.New()
	router.GET("/stream", func(c *gin.Context) { hub.Serve(c) })
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	require.NoError(t, err)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ":ok\n", line)
	_, err = reader.ReadString('\n')
	require.NoError(t, err)

	// The subscriber registered before :ok was written, so it sees this.
	hub.BroadcastDownload(model.DownloadEvent{Platform: "tiktok", MediaType: "video", OriginalURL: "https://vt.tiktok.com/x/"})

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: download\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"platform":"tiktok"`)
}
