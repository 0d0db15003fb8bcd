package model

import "time"

// DownloadEvent is published to the optional messaging integrations after a
// media file has been relayed back to the chat.
type DownloadEvent struct {
	Platform    string    `json:"platform"`
	MediaType   string    `json:"media_type"`
	OriginalURL string    `json:"original_url"`
	MediaURL    string    `json:"media_url"`
	OccurredAt  time.Time `json:"occurred_at"`
}
