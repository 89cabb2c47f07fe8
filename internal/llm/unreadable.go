package llm

import (
	"encoding/json"
	"strings"

	"github.com/arogya-labs/referral-digitizer/constants"
	"github.com/arogya-labs/referral-digitizer/internal/common"
)

// UnreadableError reports that the model explicitly declared the image too
// poor to analyze, with whatever region hints it returned.
type UnreadableError struct {
	Regions []string
}

func (e *UnreadableError) Error() string {
	if len(e.Regions) == 0 {
		return "image unreadable"
	}
	return "image unreadable: " + strings.Join(e.Regions, ", ")
}

func (e *UnreadableError) Unwrap() error {
	return common.ErrImageUnreadable
}

// CheckUnreadable inspects raw model output for the IMAGE_UNREADABLE marker.
// The contract allows either a bare JSON string or an object with an "error"
// (or "status") field plus optional "regions". Returns nil for normal payloads.
func CheckUnreadable(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.Contains(s, constants.UnreadableMarker) {
			return &UnreadableError{}
		}
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		// Not an object; a non-JSON marker still counts.
		if strings.Contains(trimmed, constants.UnreadableMarker) {
			return &UnreadableError{}
		}
		return nil
	}
	marker := firstString(m, "error", "status")
	if !strings.Contains(marker, constants.UnreadableMarker) {
		return nil
	}
	ue := &UnreadableError{}
	if regions, ok := m["regions"].([]any); ok {
		for _, r := range regions {
			if rs, ok := r.(string); ok && strings.TrimSpace(rs) != "" {
				ue.Regions = append(ue.Regions, strings.TrimSpace(rs))
			}
		}
	}
	return ue
}
