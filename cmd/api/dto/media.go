package dto

import "time"

// MediaUploadDTO is returned after an image upload.
// Placeholder can be pasted into a post body as is.
type MediaUploadDTO struct {
	URL         string `json:"url"`
	MediaID     string `json:"media_id"`
	Placeholder string `json:"placeholder"`
	Filename    string `json:"filename"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int64  `json:"size"`
}

type MediaFileDTO struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}
