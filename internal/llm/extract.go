package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/arogya-labs/referral-digitizer/internal/entity"
)

// ExtractChecklist runs the checkbox-extraction contract against one image:
// model call, unreadable check, normalization, strict schema validation,
// decode. Returns the sections plus the canonical JSON that validated.
func ExtractChecklist(ctx context.Context, c Client, img ImageInput, logger *slog.Logger) ([]entity.ChecklistSection, []byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	raw, err := c.Generate(ctx, ChecklistInstruction, img, true)
	if err != nil {
		return nil, nil, fmt.Errorf("checklist model call: %w", err)
	}
	if uerr := CheckUnreadable(raw); uerr != nil {
		return nil, raw, uerr
	}

	cleaned, _, err := NormalizeChecklistJSON(raw, logger)
	if err != nil {
		return nil, raw, fmt.Errorf("checklist output: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildChecklistJSONSchema(), cleaned); err != nil {
		return nil, cleaned, fmt.Errorf("checklist schema validation failed: %w", err)
	}

	var sections []entity.ChecklistSection
	if err := json.Unmarshal(cleaned, &sections); err != nil {
		return nil, cleaned, fmt.Errorf("unmarshal checklist: %w", err)
	}

	logger.Info("llm.checklist.ok",
		"contract", ChecklistInstructionVersion,
		"sections", len(sections),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return sections, cleaned, nil
}

// ExtractPersonalDetails runs the personal-details contract against the same
// image. An empty object is a valid result; missing fields stay zero-valued.
func ExtractPersonalDetails(ctx context.Context, c Client, img ImageInput, logger *slog.Logger) (entity.PersonalDetails, []byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	raw, err := c.Generate(ctx, PersonalDetailsInstruction, img, true)
	if err != nil {
		return entity.PersonalDetails{}, nil, fmt.Errorf("details model call: %w", err)
	}
	if uerr := CheckUnreadable(raw); uerr != nil {
		return entity.PersonalDetails{}, raw, uerr
	}

	cleaned, _, err := NormalizePersonalDetailsJSON(raw, logger)
	if err != nil {
		return entity.PersonalDetails{}, raw, fmt.Errorf("details output: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildPersonalDetailsJSONSchema(), cleaned); err != nil {
		return entity.PersonalDetails{}, cleaned, fmt.Errorf("details schema validation failed: %w", err)
	}

	var details entity.PersonalDetails
	if err := json.Unmarshal(cleaned, &details); err != nil {
		return entity.PersonalDetails{}, cleaned, fmt.Errorf("unmarshal details: %w", err)
	}

	logger.Info("llm.details.ok",
		"contract", PersonalDetailsInstructionVersion,
		"has_name", details.Name != "",
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return details, cleaned, nil
}
