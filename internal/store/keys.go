package store

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arogya-labs/referral-digitizer/constants"
)

// IsImageKey reports whether key names a scanned form image: an allowed image
// extension outside the record namespace.
func IsImageKey(key string) bool {
	if strings.HasPrefix(key, constants.RecordPrefix) {
		return false
	}
	ext := constants.NormalizeExt(filepath.Ext(key))
	_, ok := constants.AllowedImageExtensions[ext]
	return ok
}

// IsRecordKey reports whether key names a persisted extraction record.
func IsRecordKey(key string) bool {
	return strings.HasPrefix(key, constants.RecordPrefix) &&
		strings.HasSuffix(strings.ToLower(key), ".json")
}

// MIMETypeForKey returns the content type implied by a key's extension.
func MIMETypeForKey(key string) string {
	return constants.ImageContentType(filepath.Ext(key))
}

// ListImages returns all scan image keys, ascending.
func ListImages(ctx context.Context, s ArtifactStore) ([]string, error) {
	keys, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	images := keys[:0]
	for _, k := range keys {
		if IsImageKey(k) {
			images = append(images, k)
		}
	}
	return images, nil
}

// ListRecords returns all persisted record keys, newest first. Keys embed a
// second-precision timestamp, so reverse-lexicographic order over a shared
// name prefix is reverse-chronological.
func ListRecords(ctx context.Context, s ArtifactStore) ([]string, error) {
	keys, err := s.List(ctx, constants.RecordPrefix)
	if err != nil {
		return nil, err
	}
	records := keys[:0]
	for _, k := range keys {
		if IsRecordKey(k) {
			records = append(records, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(records)))
	return records, nil
}
