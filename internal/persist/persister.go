package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arogya-labs/referral-digitizer/constants"
	"github.com/arogya-labs/referral-digitizer/internal/common"
	"github.com/arogya-labs/referral-digitizer/internal/entity"
	"github.com/arogya-labs/referral-digitizer/internal/store"
)

// KeyTimestampLayout is the second-precision stamp embedded in record keys.
const KeyTimestampLayout = "20060102_150405"

// fallbackName is used when a record carries no readable patient name.
const fallbackName = "unknown"

// Persister derives a storage key from a merged record and writes the record
// as pretty-printed JSON. One record per call; same-name same-second keys
// collide and overwrite, which the naming scheme accepts.
type Persister struct {
	store store.ArtifactStore
	log   *slog.Logger
	now   func() time.Time
}

func New(st store.ArtifactStore, logger *slog.Logger) *Persister {
	if logger == nil {
		logger = slog.Default()
	}
	return &Persister{store: st, log: logger, now: time.Now}
}

// Persist writes rec under a derived key and returns the persisted form.
// Failures wrap common.ErrRecordNotSaved: the extraction itself succeeded.
func (p *Persister) Persist(ctx context.Context, rec entity.MergedRecord) (entity.PersistedRecord, error) {
	ts := p.now()
	key := DeriveKey(rec.PersonalDetails.Name, ts)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return entity.PersistedRecord{}, fmt.Errorf("%w: encode record: %v", common.ErrRecordNotSaved, err)
	}
	if err := p.store.Put(ctx, key, data, constants.JSONContentType); err != nil {
		return entity.PersistedRecord{}, fmt.Errorf("%w: %v", common.ErrRecordNotSaved, err)
	}

	p.log.Info("persist.record.ok",
		"key", key,
		"patient", SanitizeName(rec.PersonalDetails.Name),
		"sections", len(rec.MedicalPrescriptions),
		"bytes", len(data),
	)
	return entity.PersistedRecord{Key: key, Timestamp: ts, Record: rec}, nil
}

// LoadRecord fetches and decodes a persisted record.
func LoadRecord(ctx context.Context, st store.ArtifactStore, key string) (entity.MergedRecord, error) {
	data, err := st.Get(ctx, key)
	if err != nil {
		return entity.MergedRecord{}, err
	}
	var rec entity.MergedRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return entity.MergedRecord{}, fmt.Errorf("decode record %q: %w", key, err)
	}
	return rec, nil
}

// SanitizeName reduces a patient name to storage-key-safe characters: it trims
// surrounding whitespace, then keeps only alphanumerics, '_' and '-'. Spaces
// are stripped, not replaced. Idempotent.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DeriveKey builds the storage key for a record:
// json/<sanitized-name>_<YYYYMMDD_HHMMSS>.json, with "unknown" standing in
// for an empty or fully-stripped name.
func DeriveKey(name string, ts time.Time) string {
	safe := SanitizeName(name)
	if safe == "" {
		safe = fallbackName
	}
	return constants.RecordPrefix + safe + "_" + ts.Format(KeyTimestampLayout) + ".json"
}

// ParseKeyTimestamp recovers the embedded timestamp from a record key.
// Sanitized names may themselves contain underscores, so the stamp is read
// from the fixed-width tail.
func ParseKeyTimestamp(key string) (time.Time, bool) {
	base := strings.TrimSuffix(strings.TrimPrefix(key, constants.RecordPrefix), ".json")
	if len(base) < len(KeyTimestampLayout) {
		return time.Time{}, false
	}
	stamp := base[len(base)-len(KeyTimestampLayout):]
	ts, err := time.Parse(KeyTimestampLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
