package constants

import "strings"

// RecordPrefix is the storage namespace for persisted extraction records.
// Keys outside this prefix are treated as scanned form images.
const RecordPrefix = "json/"

// JSONContentType is the content type used for persisted records.
const JSONContentType = "application/json"

// AllowedImageExtensions holds the scan file extensions accepted for extraction.
var AllowedImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ImageContentType maps a file extension to its MIME type.
// Unknown extensions fall back to application/octet-stream.
func ImageContentType(ext string) string {
	switch NormalizeExt(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
