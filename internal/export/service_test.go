package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"github.com/arogya-labs/referral-digitizer/internal/store"
)

var _ store.ArtifactStore = (*fakeStore)(nil)

type fakeStore struct {
	ListFunc func(ctx context.Context, prefix string) ([]string, error)
	GetFunc  func(ctx context.Context, key string) ([]byte, error)
	PutFunc  func(ctx context.Context, key string, data []byte, contentType string) error
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]string, error) {
	return f.ListFunc(ctx, prefix)
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	return f.GetFunc(ctx, key)
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return f.PutFunc(ctx, key, data, contentType)
}

const janeRecord = `{
  "personal_details": {
    "Name": "Jane Doe",
    "Age": 35,
    "Sex": "Female",
    "Ref.Doctor": "Dr. Smith",
    "Provisional Diagnosis": "Suspected Brain Tumor",
    "H/O Diabetes": "No",
    "Any Other Illnesses": ""
  },
  "medical_prescriptions": [
    {
      "section": "CT FACILITIES",
      "items": [
        {"name": "CT Brain c 3D Reconstruction", "confidence_level": 85},
        {"name": "CT Chest", "confidence_level": 72}
      ]
    }
  ]
}`

const emptyRecord = `{
  "personal_details": {"Name": "Ravi Kumar", "Sex": "Male"},
  "medical_prescriptions": []
}`

func storeWith(objects map[string][]byte) *fakeStore {
	return &fakeStore{
		ListFunc: func(_ context.Context, _ string) ([]string, error) {
			keys := make([]string, 0, len(objects))
			for k := range objects {
				keys = append(keys, k)
			}
			return keys, nil
		},
		GetFunc: func(_ context.Context, key string) ([]byte, error) {
			return objects[key], nil
		},
	}
}

func sheetRows(t *testing.T, workbook []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	assert.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Records")
	assert.NoError(t, err)
	return rows
}

func TestExportRecordsXLSX(t *testing.T) {
	st := storeWith(map[string][]byte{
		"json/JaneDoe_20240115_093000.json":   []byte(janeRecord),
		"json/RaviKumar_20240116_110000.json": []byte(emptyRecord),
	})

	out, err := NewService(st, nil).ExportRecordsXLSX(context.Background(), nil, nil)
	assert.NoError(t, err)

	rows := sheetRows(t, out)
	// header + one row per Ravi (no tests) + two rows per Jane test
	assert.Len(t, rows, 4)
	assert.Equal(t, "Extracted At", rows[0][0])
	assert.Equal(t, "Record Key", rows[0][8])

	// ListRecords is newest-first, so Ravi's record comes before Jane's.
	assert.Equal(t, "Ravi Kumar", rows[1][1])
	assert.Len(t, rows[1], 9)
	assert.Equal(t, "json/RaviKumar_20240116_110000.json", rows[1][8])

	assert.Equal(t, "2024-01-15 09:30:00", rows[2][0])
	assert.Equal(t, "Jane Doe", rows[2][1])
	assert.Equal(t, "35", rows[2][2])
	assert.Equal(t, "Dr. Smith", rows[2][4])
	assert.Equal(t, "CT FACILITIES", rows[2][5])
	assert.Equal(t, "CT Brain c 3D Reconstruction", rows[2][6])
	assert.Equal(t, "85", rows[2][7])

	assert.Equal(t, "CT Chest", rows[3][6])
	assert.Equal(t, "72", rows[3][7])
}

func TestExportRecordsXLSXDateWindow(t *testing.T) {
	st := storeWith(map[string][]byte{
		"json/JaneDoe_20240115_093000.json":   []byte(janeRecord),
		"json/RaviKumar_20240116_110000.json": []byte(emptyRecord),
	})

	from := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	out, err := NewService(st, nil).ExportRecordsXLSX(context.Background(), &from, nil)
	assert.NoError(t, err)

	rows := sheetRows(t, out)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Ravi Kumar", rows[1][1])
}

func TestExportRecordsXLSXToBoundIsWholeDay(t *testing.T) {
	st := storeWith(map[string][]byte{
		"json/RaviKumar_20240115_235959.json": []byte(emptyRecord),
		"json/RaviKumar_20240116_000000.json": []byte(emptyRecord),
	})

	// -to 2024-01-15 covers the whole of Jan 15; midnight of Jan 16 is out.
	to := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	out, err := NewService(st, nil).ExportRecordsXLSX(context.Background(), nil, &to)
	assert.NoError(t, err)

	rows := sheetRows(t, out)
	assert.Len(t, rows, 2)
	assert.Equal(t, "json/RaviKumar_20240115_235959.json", rows[1][8])
}

func TestExportRecordsXLSXSkipsBadRecords(t *testing.T) {
	st := storeWith(map[string][]byte{
		"json/JaneDoe_20240115_093000.json": []byte(janeRecord),
		"json/broken_20240117_120000.json":  []byte("{not json"),
		"json/malformed-key.json":           []byte(emptyRecord),
	})

	out, err := NewService(st, nil).ExportRecordsXLSX(context.Background(), nil, nil)
	assert.NoError(t, err)

	rows := sheetRows(t, out)
	assert.Len(t, rows, 3)
	for _, row := range rows[1:] {
		assert.Equal(t, "Jane Doe", row[1])
	}
}

func TestExportRecordsXLSXEmptyStore(t *testing.T) {
	st := storeWith(map[string][]byte{})

	out, err := NewService(st, nil).ExportRecordsXLSX(context.Background(), nil, nil)
	assert.NoError(t, err)

	rows := sheetRows(t, out)
	assert.Len(t, rows, 1)
}
