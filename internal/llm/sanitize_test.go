package llm

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arogya-labs/referral-digitizer/internal/entity"
)

func decodeSections(t *testing.T, b []byte) []entity.ChecklistSection {
	t.Helper()
	var out []entity.ChecklistSection
	assert.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestNormalizeChecklistDropsLowConfidence(t *testing.T) {
	raw := []byte(`[
		{"section": "CT FACILITIES", "items": [
			{"name": "CT Brain c 3D Reconstruction", "confidence_level": 85},
			{"name": "CT Chest", "confidence_level": 49}
		]},
		{"section": "MRI FACILITIES", "items": [
			{"name": "MRI Spine", "confidence_level": 30}
		]}
	]`)
	out, dropped, err := NormalizeChecklistJSON(raw, slog.Default())
	assert.NoError(t, err)
	assert.NotEmpty(t, dropped)

	sections := decodeSections(t, out)
	// Sub-cutoff items vanish; the MRI section loses its last item and is
	// omitted entirely.
	assert.Len(t, sections, 1)
	assert.Equal(t, "CT FACILITIES", sections[0].Section)
	assert.Len(t, sections[0].Items, 1)
	assert.Equal(t, "CT Brain c 3D Reconstruction", sections[0].Items[0].Name)
	assert.Equal(t, 85, sections[0].Items[0].ConfidenceLevel)
}

func TestNormalizeChecklistExactCutoffSurvives(t *testing.T) {
	raw := []byte(`[{"section": "ULTRASOUND", "items": [{"name": "USG Abdomen", "confidence_level": 50}]}]`)
	out, _, err := NormalizeChecklistJSON(raw, slog.Default())
	assert.NoError(t, err)
	sections := decodeSections(t, out)
	assert.Len(t, sections, 1)
	assert.Equal(t, 50, sections[0].Items[0].ConfidenceLevel)
}

func TestNormalizeChecklistCoercesConfidenceVariants(t *testing.T) {
	raw := []byte(`[{"section": "CT FACILITIES", "items": [
		{"name": "A", "confidence_level": "85%"},
		{"name": "B", "confidence_level": "72"},
		{"name": "C", "confidence_level": 0.91},
		{"name": "D", "confidence_level": "n/a"}
	]}]`)
	out, dropped, err := NormalizeChecklistJSON(raw, slog.Default())
	assert.NoError(t, err)
	assert.Contains(t, dropped, "CT FACILITIES/D(confidence)")

	sections := decodeSections(t, out)
	assert.Len(t, sections, 1)
	got := map[string]int{}
	for _, it := range sections[0].Items {
		got[it.Name] = it.ConfidenceLevel
	}
	assert.Equal(t, map[string]int{"A": 85, "B": 72, "C": 91}, got)
}

func TestNormalizeChecklistUnwrapsObjectResponse(t *testing.T) {
	raw := []byte(`{"sections": [{"section": "CT FACILITIES", "items": [{"name": "CT Brain", "confidence_level": 90}]}]}`)
	out, _, err := NormalizeChecklistJSON(raw, slog.Default())
	assert.NoError(t, err)
	sections := decodeSections(t, out)
	assert.Len(t, sections, 1)
}

func TestNormalizeChecklistEmptyArray(t *testing.T) {
	out, dropped, err := NormalizeChecklistJSON([]byte(`[]`), slog.Default())
	assert.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, "[]", string(out))
}

func TestNormalizeChecklistRejectsNonArray(t *testing.T) {
	_, _, err := NormalizeChecklistJSON([]byte(`{"unexpected": true}`), slog.Default())
	assert.Error(t, err)
}

func TestNormalizePersonalDetails(t *testing.T) {
	raw := []byte(`{
		"Name": "  Jane Doe ",
		"Age": "35 yrs",
		"Sex": "Female",
		"Referring Doctor": "Dr. Smith",
		"Provisinal Diagnosis": "Suspected Brain Tumor",
		"H/O Diabetes": "Yes",
		"Any Other Illnesses": null,
		"Hospital": "City General"
	}`)
	out, dropped, err := NormalizePersonalDetailsJSON(raw, slog.Default())
	assert.NoError(t, err)
	assert.Contains(t, dropped, "Referring Doctor->Ref.Doctor")
	assert.Contains(t, dropped, "Hospital(unknown)")

	var details entity.PersonalDetails
	assert.NoError(t, json.Unmarshal(out, &details))
	assert.Equal(t, "Jane Doe", details.Name)
	assert.Equal(t, 35, details.Age)
	assert.Equal(t, "Dr. Smith", details.RefDoctor)
	assert.Equal(t, "Suspected Brain Tumor", details.ProvisionalDiagnosis)
	assert.Empty(t, details.OtherIllnesses)
}

func TestNormalizePersonalDetailsEmptyObject(t *testing.T) {
	out, dropped, err := NormalizePersonalDetailsJSON([]byte(`{}`), slog.Default())
	assert.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Equal(t, "{}", string(out))
}
