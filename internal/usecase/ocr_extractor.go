package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"miseai/internal/domain/entity"
	"miseai/internal/domain/repository"
	"miseai/internal/metrics"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

const NoTextWarning = "No text could be extracted from the file"

type OCRConfig struct {
	Options     entity.OCROptions
	DPI         float64
	PageWorkers int
}

type OCRExtractor struct {
	recognizer   repository.TextRecognizer
	rasterizer   repository.PageRasterizer
	preprocessor repository.ImagePreprocessor
	cfg          OCRConfig
	logger       *zap.Logger
}

func NewOCRExtractor(rec repository.TextRecognizer, rast repository.PageRasterizer, pre repository.ImagePreprocessor, cfg OCRConfig, logger *zap.Logger) *OCRExtractor {
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.PageWorkers <= 0 {
		cfg.PageWorkers = 1
	}
	return &OCRExtractor{recognizer: rec, rasterizer: rast, preprocessor: pre, cfg: cfg, logger: logger}
}

// Extract runs OCR over an uploaded image or PDF. A document with no
// recognizable text is not an error; it carries NoTextWarning instead.
func (e *OCRExtractor) Extract(ctx context.Context, filename string, data []byte) (*entity.OCRDocument, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", entity.ErrInvalidFile)
	}

	log := e.logger.With(zap.String("file", filename))
	doc := &entity.OCRDocument{Filename: filename}

	var err error
	if isPDF(filename) {
		log.Info("processing pdf")
		doc.Pages, err = e.extractPDF(ctx, data)
		if err != nil {
			return nil, err
		}
		var sb strings.Builder
		for _, p := range doc.Pages {
			if strings.TrimSpace(p.Text) == "" {
				continue
			}
			fmt.Fprintf(&sb, "\n--- Page %d ---\n%s\n", p.Index+1, p.Text)
		}
		doc.Text = sb.String()
	} else {
		log.Info("processing image")
		img, _, decErr := image.Decode(bytes.NewReader(data))
		if decErr != nil {
			return nil, fmt.Errorf("%w: invalid image file: %v", entity.ErrInvalidFile, decErr)
		}
		text, recErr := e.recognize(ctx, img)
		if recErr != nil {
			return nil, recErr
		}
		doc.Pages = []entity.OCRPage{{Index: 0, Text: text}}
		doc.Text = text
	}

	doc.Text = strings.TrimSpace(doc.Text)
	if doc.Text == "" {
		doc.Warning = NoTextWarning
	}
	log.Info("ocr complete", zap.Int("pages", len(doc.Pages)), zap.Int("chars", len(doc.Text)))
	return doc, nil
}

func (e *OCRExtractor) extractPDF(ctx context.Context, data []byte) ([]entity.OCRPage, error) {
	images, err := e.rasterizer.Rasterize(ctx, data, e.cfg.DPI)
	if err != nil {
		metrics.IncError("ocr", "rasterize")
		return nil, fmt.Errorf("%w: rasterize pdf: %v", entity.ErrOCRFailed, err)
	}

	pages := make([]entity.OCRPage, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.PageWorkers)
	for i, img := range images {
		g.Go(func() error {
			text, err := e.recognize(gctx, img)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			pages[i] = entity.OCRPage{Index: i, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (e *OCRExtractor) recognize(ctx context.Context, img image.Image) (string, error) {
	if e.preprocessor != nil {
		img = e.preprocessor.Preprocess(img)
	}
	metrics.AddOCRPages(1)
	text, err := e.recognizer.Recognize(ctx, img, e.cfg.Options)
	if err != nil {
		metrics.IncError("ocr", "recognize")
		return "", fmt.Errorf("%w: %v", entity.ErrOCRFailed, err)
	}
	return text, nil
}

func isPDF(filename string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(filename)), ".pdf")
}
