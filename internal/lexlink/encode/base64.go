package encode

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DataURIImagePrefix marks inline image payloads in chat content.
const DataURIImagePrefix = "data:image"

func DecodeBase64String(value string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(value)
}

func EncodeBase64String(value []byte) string {
	return base64.StdEncoding.EncodeToString(value)
}

// ImagePayload extracts the base64 payload from a `data:image/...;base64,<payload>`
// URI. The payload is everything after the first comma; it is not decoded here.
func ImagePayload(uri string) (string, error) {
	if !strings.HasPrefix(uri, DataURIImagePrefix) {
		return "", fmt.Errorf("not an image data uri")
	}
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return "", fmt.Errorf("data uri missing payload separator")
	}
	return uri[idx+1:], nil
}

// ImageDataURI builds a png data URI for raw image bytes.
func ImageDataURI(mime string, data []byte) string {
	if strings.TrimSpace(mime) == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + EncodeBase64String(data)
}
