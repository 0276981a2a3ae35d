package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumeparser/internal/service"
)

const (
	defaultDownloadExpiry = 15 * time.Minute
	maxDownloadExpiry     = 7 * 24 * time.Hour
)

// UploadResume godoc
// @Summary Store a PDF resume with its extracted text
// @Accept multipart/form-data
// @Produce json
// @Param pdf_file formData file true "PDF resume"
// @Param title formData string false "Display title"
// @Success 201 {object} service.ResumeDetail
// @Failure 400 {object} errorPayload
// @Router /api/resumes [post]
func UploadResume(svc service.ResumeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, filename, err := readUpload(c, "pdf_file", "resume")
		if err != nil {
			return writeUploadError(c, err)
		}

		res, err := svc.Upload(c.UserContext(), data, filename, c.FormValue("title"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// ListResumes godoc
// @Summary List stored resumes
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.ResumeListResult
// @Router /api/resumes [get]
func ListResumes(svc service.ResumeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetResume godoc
// @Summary Get a stored resume with its text and sections
// @Produce json
// @Param id path string true "Resume ID"
// @Success 200 {object} service.ResumeDetail
// @Failure 404 {object} errorPayload
// @Router /api/resumes/{id} [get]
func GetResume(svc service.ResumeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := resumeID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DeleteResume godoc
// @Summary Delete a stored resume
// @Param id path string true "Resume ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/resumes/{id} [delete]
func DeleteResume(svc service.ResumeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := resumeID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ReparseResume godoc
// @Summary Run extraction again on a stored resume
// @Produce json
// @Param id path string true "Resume ID"
// @Success 200 {object} service.ResumeDetail
// @Router /api/resumes/{id}/reparse [post]
func ReparseResume(svc service.ResumeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := resumeID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.Reparse(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DownloadResume godoc
// @Summary Get a presigned download link for a stored resume
// @Produce json
// @Param id path string true "Resume ID"
// @Param expires query int false "Link lifetime in seconds" default(900)
// @Success 200 {object} map[string]any
// @Router /api/resumes/{id}/download [get]
func DownloadResume(svc service.ResumeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := resumeID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		expiry := defaultDownloadExpiry
		if v := c.Query("expires"); v != "" {
			secs, err := strconv.Atoi(v)
			// Bound secs before converting so huge values cannot wrap around.
			if err != nil || secs <= 0 || secs > int(maxDownloadExpiry/time.Second) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRES", "invalid expires")
			}
			expiry = time.Duration(secs) * time.Second
		}

		u, err := svc.DownloadURL(c.UserContext(), id, expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": u, "expires_in": int(expiry.Seconds())})
	}
}

func resumeID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
