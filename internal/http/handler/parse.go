package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"resumeparser/internal/service"
)

var errFileOpen = errors.New("cannot open uploaded file")

// readUpload returns the bytes and name of the first multipart file found under fields.
func readUpload(c *fiber.Ctx, fields ...string) ([]byte, string, error) {
	for _, field := range fields {
		fh, err := c.FormFile(field)
		if err != nil {
			continue
		}

		f, err := fh.Open()
		if err != nil {
			return nil, "", errFileOpen
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", errFileOpen
		}
		return data, fh.Filename, nil
	}
	return nil, "", service.ErrFileRequired
}

func formValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.FormValue(k)); v != "" {
			return v
		}
	}
	return ""
}

func writeUploadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errFileOpen) {
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	return writeServiceError(c, err)
}

// ParsePDF godoc
// @Summary Extract text and sections from a PDF resume
// @Accept multipart/form-data
// @Produce json
// @Param pdf_file formData file true "PDF resume"
// @Success 200 {object} service.ParseResult
// @Failure 400 {object} errorPayload
// @Router /api/parse-pdf/ [post]
func ParsePDF(svc service.ParserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, filename, err := readUpload(c, "pdf_file", "resume")
		if err != nil {
			return writeUploadError(c, err)
		}

		res, err := svc.Parse(c.UserContext(), data, filename)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// AnalyzeResume godoc
// @Summary Parse a PDF resume and score it against a job description
// @Accept multipart/form-data
// @Produce json
// @Param resume formData file true "PDF resume"
// @Param job_description formData string true "Job description"
// @Success 200 {object} service.AnalyzeResult
// @Failure 400 {object} errorPayload
// @Router /api/analyze-resume [post]
func AnalyzeResume(svc service.ParserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, filename, err := readUpload(c, "resume", "pdf_file")
		if err != nil {
			return writeUploadError(c, err)
		}
		jd := formValue(c, "job_description", "jobDescription")

		res, err := svc.Analyze(c.UserContext(), data, filename, jd)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
