package api

import (
	"errors"
	"fmt"
	"io"
	"time"

	"miseai/internal/domain/entity"
	"miseai/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RecipeHandler struct {
	generator  *usecase.RecipeGenerator
	extractor  *usecase.OCRExtractor
	structurer *usecase.RecipeStructurer
	logger     *zap.Logger
}

func NewRecipeHandler(gen *usecase.RecipeGenerator, ext *usecase.OCRExtractor, st *usecase.RecipeStructurer, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{generator: gen, extractor: ext, structurer: st, logger: logger}
}

func (h *RecipeHandler) HandleGenerateRecipe(c *fiber.Ctx) error {
	var req entity.GenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	req.ClientKey = c.IP()

	resp, err := h.generator.Generate(c.UserContext(), req)
	if err != nil {
		return h.writeError(c, err)
	}

	c.Set("X-Recipe-Retried", "false")
	if resp.Retried {
		c.Set("X-Recipe-Retried", "true")
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *RecipeHandler) HandleOCRExtract(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "multipart field \"file\" is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return h.writeError(c, fmt.Errorf("%w: %v", entity.ErrInvalidFile, err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return h.writeError(c, fmt.Errorf("%w: %v", entity.ErrInvalidFile, err))
	}

	doc, err := h.extractor.Extract(c.UserContext(), fh.Filename, data)
	if err != nil {
		return h.writeError(c, err)
	}
	if doc.Warning != "" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"text": "", "warning": doc.Warning})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"text": doc.Text})
}

func (h *RecipeHandler) HandleStructureRecipe(c *fiber.Ctx) error {
	var req entity.StructureRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	resp, err := h.structurer.Structure(c.UserContext(), req.Text)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *RecipeHandler) HandleHealth(info ServiceInfo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   info.Version,
			"env":       info.Env,
		})
	}
}

// writeError maps domain errors to HTTP status codes.
func (h *RecipeHandler) writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrInvalidRequest), errors.Is(err, entity.ErrInvalidFile):
		status = fiber.StatusBadRequest
	case errors.Is(err, entity.ErrQuotaExceeded):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, entity.ErrGenerationFailed), errors.Is(err, entity.ErrOCRFailed):
	default:
		h.logger.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	if status >= fiber.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
