package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"resumeparser/internal/service"
)

// RegisterRoutes attaches HTTP routes to app. The /api/resumes group is mounted only
// when resumes is non-nil, i.e. when storage and a database are configured.
func RegisterRoutes(app *fiber.App, db *sql.DB, parser service.ParserService, resumes service.ResumeService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Post("/parse-pdf", ParsePDF(parser))
	api.Post("/analyze-resume", AnalyzeResume(parser))

	if resumes == nil {
		return
	}
	api.Post("/resumes", UploadResume(resumes))
	api.Get("/resumes", ListResumes(resumes))
	api.Get("/resumes/:id", GetResume(resumes))
	api.Delete("/resumes/:id", DeleteResume(resumes))
	api.Post("/resumes/:id/reparse", ReparseResume(resumes))
	api.Get("/resumes/:id/download", DownloadResume(resumes))
}
