package model

import "time"

// VideoRecord is the persisted trace of one successful extraction. The name
// and the video_* columns predate audio and image support and are kept for
// compatibility with the existing videos collection.
type VideoRecord struct {
	ID             int64     `json:"id,omitempty" bson:"-" gorm:"primaryKey;autoIncrement"`
	Platform       string    `json:"platform" bson:"platform" gorm:"size:64;index"`
	VideoURL       string    `json:"video_url" bson:"video_url" gorm:"size:2048"`
	VideoThumbnail string    `json:"video_thumbnail" bson:"video_thumbnail" gorm:"size:2048"`
	OriginalURL    string    `json:"original_url" bson:"original_url" gorm:"size:2048"`
	DateAdded      time.Time `json:"date_added" bson:"date_added" gorm:"index"`
}

// TableName is shared by the SQL vendors and the Mongo collection.
func (VideoRecord) TableName() string {
	return "videos"
}
