package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/FatihZee/tele-bot/domain/model"
)

// Hub fans successful downloads out to the admin dashboard's SSE
// subscribers. A subscriber with a full buffer misses the event; the relay
// path is never blocked on a slow dashboard.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan model.DownloadEvent]struct{}
}

func NewDownloadHub() *Hub {
	return &Hub{subscribers: make(map[chan model.DownloadEvent]struct{})}
}

// Serve streams download events to one dashboard connection until the
// client disconnects.
func (h *Hub) Serve(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan model.DownloadEvent, 8)
	h.addSubscriber(ch)
	defer h.removeSubscriber(ch)

	// Initial comment to keep connection open
	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: download\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *Hub) addSubscriber(ch chan model.DownloadEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[ch] = struct{}{}
}

func (h *Hub) removeSubscriber(ch chan model.DownloadEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// BroadcastDownload delivers one event to every current subscriber.
func (h *Hub) BroadcastDownload(event model.DownloadEvent) {
	h.mu.RLock()
	for ch := range h.subscribers {
		select { // non-blocking
		case ch <- event:
		default:
		}
	}
	h.mu.RUnlock()
}
