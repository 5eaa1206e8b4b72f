package pipeline

import (
	"encoding/base64"
	"time"
)

// DownloadContentType is the MIME type of the transcript file.
const DownloadContentType = "text/plain; charset=utf-8"

// Download is the transcript packaged as a text file.
type Download struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

// Filename returns "ocr_YYYYMMDD_HHMMSS.txt" for t, in t's location.
func Filename(t time.Time) string {
	return t.Format("ocr_20060102_150405.txt")
}

// NewDownload packages text as a UTF-8 file named after t. An empty
// transcript gives an empty, still valid, file.
func NewDownload(t time.Time, text string) Download {
	return Download{
		Filename:    Filename(t),
		ContentType: DownloadContentType,
		Content:     []byte(text),
	}
}

// DataURI returns the file as a data URI for download links.
func (d Download) DataURI() string {
	return "data:text/plain;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(d.Content)
}
