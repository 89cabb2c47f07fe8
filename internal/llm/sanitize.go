package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/arogya-labs/referral-digitizer/constants"
	"github.com/arogya-labs/referral-digitizer/internal/entity"
)

// checklistWrapperKeys are object keys under which models occasionally nest
// the section array despite the instruction asking for a bare array.
var checklistWrapperKeys = []string{"medical_prescriptions", "sections", "results", "tests"}

// NormalizeChecklistJSON reshapes raw model output into the canonical section
// array:
//   - unwraps known single-key object wrappers
//   - renames key synonyms (section_header -> section, confidence -> confidence_level)
//   - coerces confidence values ("85%", 0.85, 85.0) to integer percent
//   - drops items below the confidence cutoff and items with no readable name
//   - drops sections left with zero items
//
// Returns the canonical JSON, a list of what was dropped or changed, and an
// error only when the payload is not decodable at all.
func NormalizeChecklistJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, nil, fmt.Errorf("normalize checklist: decode: %w", err)
	}

	var dropped []string

	// Unwrap {"sections": [...]} style responses.
	if m, ok := v.(map[string]any); ok {
		for _, k := range checklistWrapperKeys {
			if inner, found := m[k]; found {
				v = inner
				dropped = append(dropped, "unwrap("+k+")")
				break
			}
		}
	}

	arr, ok := v.([]any)
	if !ok {
		return nil, dropped, fmt.Errorf("normalize checklist: expected array, got %T", v)
	}

	out := make([]entity.ChecklistSection, 0, len(arr))
	for _, sv := range arr {
		sm, ok := sv.(map[string]any)
		if !ok {
			dropped = append(dropped, "section(type)")
			continue
		}
		header := firstString(sm, "section", "section_header", "header")
		header = strings.TrimSpace(header)
		if header == "" {
			dropped = append(dropped, "section(no header)")
			continue
		}

		rawItems, _ := sm["items"].([]any)
		items := make([]entity.ChecklistItem, 0, len(rawItems))
		for _, iv := range rawItems {
			im, ok := iv.(map[string]any)
			if !ok {
				dropped = append(dropped, header+"/item(type)")
				continue
			}
			name := strings.TrimSpace(firstString(im, "name", "test_name"))
			if name == "" {
				dropped = append(dropped, header+"/item(no name)")
				continue
			}
			conf, ok := coercePercent(firstValue(im, "confidence_level", "confidence"))
			if !ok {
				dropped = append(dropped, header+"/"+name+"(confidence)")
				continue
			}
			if conf < constants.MinConfidencePercent {
				dropped = append(dropped, header+"/"+name+"(below cutoff)")
				continue
			}
			items = append(items, entity.ChecklistItem{Name: name, ConfidenceLevel: conf})
		}
		if len(items) == 0 {
			dropped = append(dropped, header+"(empty)")
			continue
		}
		out = append(out, entity.ChecklistSection{Section: header, Items: items})
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, dropped, fmt.Errorf("normalize checklist: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.checklist.normalized", "dropped", dropped)
	}
	return b, dropped, nil
}

// detailsSynonyms maps field-name variants the model emits to the fixed form
// labels of the personal-details schema.
var detailsSynonyms = map[string]string{
	"Referring Doctor":     "Ref.Doctor",
	"Ref. Doctor":          "Ref.Doctor",
	"Provisinal Diagnosis": "Provisional Diagnosis",
	"History of Diabetes":  "H/O Diabetes",
	"Other Illnesses":      "Any Other Illnesses",
}

// detailsAllowedKeys is the fixed personal-details field set.
var detailsAllowedKeys = map[string]struct{}{
	"Name": {}, "Age": {}, "Sex": {}, "Ref.Doctor": {},
	"Provisional Diagnosis": {}, "H/O Diabetes": {}, "Any Other Illnesses": {},
}

// NormalizePersonalDetailsJSON reshapes raw model output into the canonical
// personal-details object: renames synonyms, coerces Age to an integer, trims
// strings, drops nulls/empties and unknown keys.
func NormalizePersonalDetailsJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("normalize details: decode: %w", err)
	}

	var dropped []string

	for from, to := range detailsSynonyms {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	if v, ok := m["Age"]; ok {
		if age, ok := coerceInt(v); ok && age >= 0 {
			m["Age"] = age
		} else {
			delete(m, "Age")
			dropped = append(dropped, "Age(unparseable)")
		}
	}

	for k, v := range m {
		if _, ok := detailsAllowedKeys[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		if k == "Age" {
			continue
		}
		switch t := v.(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		default:
			delete(m, k)
			dropped = append(dropped, k+"(type)")
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("normalize details: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.details.normalized", "dropped", dropped)
	}
	return b, dropped, nil
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			return s
		}
	}
	return ""
}

// coercePercent accepts 85, 85.0, "85", "85%", and fractional 0.85, returning
// an integer percent clamped to 0..100.
func coercePercent(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t > 0 && t <= 1 {
			t *= 100
		}
		return clampPercent(int(math.Round(t))), true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		if f > 0 && f <= 1 {
			f *= 100
		}
		return clampPercent(int(math.Round(f))), true
	default:
		return 0, false
	}
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(math.Round(t)), true
	case string:
		s := strings.TrimSpace(t)
		// tolerate suffixes like "35 yrs"
		end := 0
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if end == 0 {
			return 0, false
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func clampPercent(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
