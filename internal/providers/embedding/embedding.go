package embedding

import "context"

// Provider turns question text into vectors for the similarity index.
type Provider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}
