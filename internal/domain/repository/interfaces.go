package repository

import (
	"context"
	"image"

	"miseai/internal/domain/entity"
)

// ChatCompleter is a synchronous chat-completion backend. The caller supplies
// every sampling parameter.
type ChatCompleter interface {
	Complete(ctx context.Context, req entity.ChatRequest) (*entity.ChatCompletion, error)
}

type TextRecognizer interface {
	Recognize(ctx context.Context, img image.Image, opts entity.OCROptions) (string, error)
}

// PageRasterizer renders every page of a PDF in page order.
type PageRasterizer interface {
	Rasterize(ctx context.Context, pdf []byte, dpi float64) ([]image.Image, error)
}

type ImagePreprocessor interface {
	Preprocess(img image.Image) image.Image
}

type UsageLimiter interface {
	CheckLimit(ctx context.Context, clientKey string) (bool, error)
	Increment(ctx context.Context, clientKey string, tokens int) error
}
