package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docingest/internal/service"
)

// Metrics exposes the registry in the Prometheus text format.
func Metrics(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// A nil gatherer leaves /metrics unregistered.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.ProjectFileService, hub Subscriber, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if gatherer != nil {
		app.Get("/metrics", Metrics(gatherer))
	}

	projects := app.Group("/projects/:id")
	projects.Post("/files", UploadFiles(svc))
	projects.Get("/files", ExportFiles(svc))
	projects.Delete("/files/:fileId", DeleteFile(svc))
	projects.Get("/texts", ListTexts(svc))
	projects.Post("/clear", ClearTags(svc))
	projects.Get("/events", ProjectEvents(hub))
}
