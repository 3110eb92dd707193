package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicLinkRoundTrip(t *testing.T) {
	s := &awsS3{bucket: "struk", region: "ap-southeast-3"}

	link := s.GetPublicLinkKey("receipts/receipt-1.jpg")
	assert.Equal(t, "https://struk.s3.ap-southeast-3.amazonaws.com/receipts/receipt-1.jpg", link)
	assert.Equal(t, "receipts/receipt-1.jpg", s.GetObjectKeyFromLink(link))
}

func TestObjectKeyFromForeignLink(t *testing.T) {
	s := &awsS3{bucket: "struk", region: "ap-southeast-3"}

	assert.Empty(t, s.GetObjectKeyFromLink("https://cdn.example.com/receipts/a.jpg"))
	assert.Empty(t, s.GetObjectKeyFromLink("://bad"))
}

func TestUnconfiguredStorage(t *testing.T) {
	s := &awsS3{}

	assert.ErrorIs(t, s.DeleteFile("receipts/a.jpg"), ErrStorageNotReady)
}

func TestNormalizeImagePassesThrough(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")

	data, contentType, err := normalizeImage(png, "image/png")
	assert.NoError(t, err)
	assert.Equal(t, png, data)
	assert.Equal(t, "image/png", contentType)
}

func TestIsHEIC(t *testing.T) {
	assert.True(t, isHEIC([]byte("\x00\x00\x00\x18ftypheic0000"), "application/octet-stream"))
	assert.True(t, isHEIC(nil, "image/heif"))
	assert.False(t, isHEIC([]byte("\x00\x00\x00\x18ftypisom0000"), "video/mp4"))
	assert.False(t, isHEIC([]byte("short"), "image/jpeg"))
}

func TestNormalizeImageRejectsBrokenHEIC(t *testing.T) {
	_, _, err := normalizeImage([]byte("\x00\x00\x00\x18ftypheicgarbage"), "image/heic")
	assert.Error(t, err)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg", "IMG_0042.HEIC"))
	assert.Equal(t, ".png", extensionFor("image/png", "scan"))
	assert.Equal(t, ".gif", extensionFor("image/gif", "Scan.GIF"))
}
