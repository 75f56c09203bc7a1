package llm

import (
	"context"

	"github.com/arogyalabs/medassist/internal/models"
)

type Provider interface {
	// Generate sends the prompt, with the image attached when non-nil,
	// and returns the full response text. Blocking; no retries.
	Generate(ctx context.Context, prompt string, image *models.ImageBlob) (string, error)
	Close() error
}
