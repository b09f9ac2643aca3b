package usecase

import (
	"context"
	"image"
	"sync"

	"miseai/internal/domain/entity"
)

type fakeProvider struct {
	mu       sync.Mutex
	requests []entity.ChatRequest
	replies  []string
	errs     []error
}

func (f *fakeProvider) Complete(_ context.Context, req entity.ChatRequest) (*entity.ChatCompletion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	reply := ""
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	return &entity.ChatCompletion{Content: reply, Model: "fake-model", TokenCount: 100}, nil
}

func (f *fakeProvider) calls() []entity.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.ChatRequest(nil), f.requests...)
}

type fakeLimiter struct {
	mu         sync.Mutex
	allowed    bool
	checkErr   error
	increments map[string]int
}

func newFakeLimiter(allowed bool) *fakeLimiter {
	return &fakeLimiter{allowed: allowed, increments: map[string]int{}}
}

func (f *fakeLimiter) CheckLimit(_ context.Context, _ string) (bool, error) {
	return f.allowed, f.checkErr
}

func (f *fakeLimiter) Increment(_ context.Context, clientKey string, tokens int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments[clientKey] += tokens
	return nil
}

func (f *fakeLimiter) usage(clientKey string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.increments[clientKey]
}

// fakeRecognizer identifies images by their width.
type fakeRecognizer struct {
	mu      sync.Mutex
	byWidth map[int]string
	err     error
	opts    []entity.OCROptions
}

func (f *fakeRecognizer) Recognize(_ context.Context, img image.Image, opts entity.OCROptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return "", f.err
	}
	return f.byWidth[img.Bounds().Dx()], nil
}

type fakeRasterizer struct {
	pages int
	err   error
	dpi   float64
}

func (f *fakeRasterizer) Rasterize(_ context.Context, _ []byte, dpi float64) ([]image.Image, error) {
	f.dpi = dpi
	if f.err != nil {
		return nil, f.err
	}
	images := make([]image.Image, f.pages)
	for i := range images {
		images[i] = image.NewGray(image.Rect(0, 0, i+1, 1))
	}
	return images, nil
}
