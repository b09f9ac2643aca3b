package api

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServiceInfo struct {
	Version        string
	Env            string
	AllowedOrigins []string
}

func SetupRouter(app *fiber.App, handler *RecipeHandler, info ServiceInfo) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(corsConfig(info.AllowedOrigins)))

	app.Get("/health", handler.HandleHealth(info))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Endpoints
	app.Post("/generate-recipe", handler.HandleGenerateRecipe)
	app.Post("/ocr-extract", handler.HandleOCRExtract)
	app.Post("/structure-recipe", handler.HandleStructureRecipe)

	// Paths used by the earlier web client
	app.Post("/ocr", handler.HandleOCRExtract)
	app.Post("/structure", handler.HandleStructureRecipe)
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowMethods: "GET,POST,OPTIONS",
		// fiber rejects credentials with a wildcard origin.
		AllowCredentials: !slices.Contains(origins, "*"),
	}
}
