package llm

import "context"

// ImageInput is one scanned form image handed to the model.
type ImageInput struct {
	Data     []byte
	MIMEType string
}

// Client is the interface the orchestration pipeline depends on. One call is
// one model invocation: single attempt, no internal retry. When expectJSON is
// set the model is constrained to emit JSON and the returned bytes are the
// raw (unvalidated) document.
type Client interface {
	Generate(ctx context.Context, instruction string, img ImageInput, expectJSON bool) ([]byte, error)
}
