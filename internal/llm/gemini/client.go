package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/arogya-labs/referral-digitizer/internal/common"
	"github.com/arogya-labs/referral-digitizer/internal/llm"
)

// Generate implements llm.Client with a single Gemini invocation. One attempt,
// no retry: a failed call is surfaced to the operator who re-triggers the
// whole action.
func (c *Client) Generate(ctx context.Context, instruction string, img llm.ImageInput, expectJSON bool) ([]byte, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is empty")
	}
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("gemini: %w: empty image", common.ErrInvalidInput)
	}

	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()
	c.log.Info("gemini.generate.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"image_bytes", len(img.Data),
		"mime", img.MIMEType,
		"expect_json", expectJSON,
	)

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	cl, err := genai.NewClient(callCtx, option.WithAPIKey(c.cfg.APIKey))
	if err != nil {
		c.log.Error("gemini.generate.client_error", "req_id", rid, "error", err)
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(c.cfg.Model))
	gc := genai.GenerationConfig{Temperature: ptrFloat32(c.cfg.Temperature)}
	if expectJSON {
		gc.ResponseMIMEType = "application/json"
	}
	m.GenerationConfig = gc

	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	parts := []genai.Part{
		genai.Text(instruction),
		&genai.Blob{MIMEType: mimeType, Data: img.Data},
	}

	resp, err := m.GenerateContent(callCtx, parts...)
	if err != nil {
		c.log.Error("gemini.generate.call_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("gemini call: %w", err)
	}

	txt := firstText(resp)
	if txt == "" {
		c.log.Error("gemini.generate.empty_response",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, errors.New("gemini: empty response")
	}
	txt = stripCodeFences(strings.TrimSpace(txt))

	c.log.Info("gemini.generate.ok",
		"req_id", rid,
		"model", c.cfg.Model,
		"bytes", len(txt),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return []byte(txt), nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok && string(t) != "" {
				return string(t)
			}
		}
	}
	return ""
}

// stripCodeFences removes a ```json ... ``` wrapper some model versions emit
// even in JSON response mode.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func ptrFloat32(f float32) *float32 { return &f }
