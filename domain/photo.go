package domain

import (
	"mime"
	"strings"
	"time"
)

// MaxPhotoBytes bounds a decoded profile photo.
const MaxPhotoBytes = 512 * 1024

// Photo is the profile picture of a user, at most one per user.
type Photo struct {
	UserID     int64
	MimeType   string
	FileName   string
	Data       []byte
	UploadedAt time.Time
}

// IsImageMimeType reports whether a detected media type is an image.
func IsImageMimeType(detected string) bool {
	mediaType, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
