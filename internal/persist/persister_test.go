package persist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arogya-labs/referral-digitizer/internal/common"
	"github.com/arogya-labs/referral-digitizer/internal/entity"
	"github.com/arogya-labs/referral-digitizer/internal/store"
)

// Compile-time check that the fake satisfies the store interface.
var _ store.ArtifactStore = (*fakeStore)(nil)

type fakeStore struct {
	ListFunc func(ctx context.Context, prefix string) ([]string, error)
	GetFunc  func(ctx context.Context, key string) ([]byte, error)
	PutFunc  func(ctx context.Context, key string, data []byte, contentType string) error

	PutCalls int
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]string, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, prefix)
	}
	return nil, nil
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, key)
	}
	return nil, common.ErrNotFound
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.PutCalls++
	if f.PutFunc != nil {
		return f.PutFunc(ctx, key, data, contentType)
	}
	return nil
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Jane Doe":        "JaneDoe",
		"  Jane Doe  ":    "JaneDoe",
		"O'Brien, P.":     "OBrienP",
		"ram_kumar-2":     "ram_kumar-2",
		"...":             "",
		"":                "",
		"Ana-María López": "Ana-MaraLpez",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeName(in), "input %q", in)
	}
}

func TestSanitizeNameIdempotent(t *testing.T) {
	inputs := []string{"Jane Doe", "  spaced out  ", "Dr. A. B.-C", "already_clean-1", "@#$%"}
	for _, in := range inputs {
		once := SanitizeName(in)
		assert.Equal(t, once, SanitizeName(once), "input %q", in)
	}
}

func TestDeriveKey(t *testing.T) {
	ts := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "json/JaneDoe_20240115_093000.json", DeriveKey("Jane Doe", ts))
	assert.Equal(t, "json/unknown_20240115_093000.json", DeriveKey("", ts))
	assert.Equal(t, "json/unknown_20240115_093000.json", DeriveKey("@@@", ts))
}

func TestParseKeyTimestamp(t *testing.T) {
	ts, ok := ParseKeyTimestamp("json/ram_kumar_20240115_093000.json")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), ts)

	_, ok = ParseKeyTimestamp("json/short.json")
	assert.False(t, ok)
}

func TestPersistWritesDerivedKey(t *testing.T) {
	var gotKey, gotCT string
	var gotData []byte
	st := &fakeStore{
		PutFunc: func(_ context.Context, key string, data []byte, contentType string) error {
			gotKey, gotData, gotCT = key, data, contentType
			return nil
		},
	}
	p := New(st, slog.Default())
	p.now = func() time.Time { return time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC) }

	rec := entity.MergedRecord{
		PersonalDetails:      entity.PersonalDetails{Name: "Jane Doe", Age: 35, Sex: "Female"},
		MedicalPrescriptions: []entity.ChecklistSection{},
	}
	persisted, err := p.Persist(context.Background(), rec)
	assert.NoError(t, err)
	assert.Equal(t, "json/JaneDoe_20240115_093000.json", persisted.Key)
	assert.Equal(t, persisted.Key, gotKey)
	assert.Equal(t, "application/json", gotCT)

	// Artifact has exactly the two top-level keys, pretty-printed.
	var top map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(gotData, &top))
	assert.Len(t, top, 2)
	assert.Contains(t, top, "personal_details")
	assert.Contains(t, top, "medical_prescriptions")
	assert.Contains(t, string(gotData), "\n  \"personal_details\"")
}

func TestPersistMissingNameFallsBackToUnknown(t *testing.T) {
	var gotKey string
	st := &fakeStore{
		PutFunc: func(_ context.Context, key string, _ []byte, _ string) error {
			gotKey = key
			return nil
		},
	}
	p := New(st, slog.Default())

	_, err := p.Persist(context.Background(), entity.MergedRecord{
		MedicalPrescriptions: []entity.ChecklistSection{},
	})
	assert.NoError(t, err)
	assert.True(t, len(gotKey) > len("json/unknown_"))
	assert.Equal(t, "json/unknown_", gotKey[:len("json/unknown_")])
}

func TestPersistStoreFailure(t *testing.T) {
	st := &fakeStore{
		PutFunc: func(_ context.Context, _ string, _ []byte, _ string) error {
			return errors.New("bucket gone")
		},
	}
	p := New(st, slog.Default())

	_, err := p.Persist(context.Background(), entity.MergedRecord{})
	assert.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRecordNotSaved)
}

func TestLoadRecordRoundTrip(t *testing.T) {
	rec := entity.MergedRecord{
		PersonalDetails: entity.PersonalDetails{
			Name: "Jane Doe", Age: 35, Sex: "Female", RefDoctor: "Dr. Smith",
			ProvisionalDiagnosis: "Suspected Brain Tumor", HODiabetes: "Yes", OtherIllnesses: "N/A",
		},
		MedicalPrescriptions: []entity.ChecklistSection{
			{Section: "CT FACILITIES", Items: []entity.ChecklistItem{
				{Name: "CT Brain c 3D Reconstruction", ConfidenceLevel: 85},
			}},
		},
	}
	stored := map[string][]byte{}
	st := &fakeStore{
		PutFunc: func(_ context.Context, key string, data []byte, _ string) error {
			stored[key] = data
			return nil
		},
		GetFunc: func(_ context.Context, key string) ([]byte, error) {
			if b, ok := stored[key]; ok {
				return b, nil
			}
			return nil, common.ErrNotFound
		},
	}
	p := New(st, slog.Default())

	persisted, err := p.Persist(context.Background(), rec)
	assert.NoError(t, err)

	loaded, err := LoadRecord(context.Background(), st, persisted.Key)
	assert.NoError(t, err)
	assert.Equal(t, rec, loaded)
}
