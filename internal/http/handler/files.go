package handler

import (
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docingest/internal/service"
)

// uploadField is the multipart field carrying the uploaded files.
const uploadField = "files"

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// UploadFiles godoc
// @Summary Upload files into a project
// @Description Ingests .txt, .pdf, .csv and .zip files. Any rejected file rejects the whole upload.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Project ID"
// @Param files formData file true "Files to ingest"
// @Success 201 {array} model.TextDocument
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /projects/{id}/files [post]
func UploadFiles(svc service.ProjectFileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID := c.Params("id")
		if !validID(projectID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		form, err := c.MultipartForm()
		if err != nil || len(form.File[uploadField]) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one file is required")
		}

		headers := form.File[uploadField]
		uploads := make([]service.FileUpload, 0, len(headers))
		opened := make([]multipart.File, 0, len(headers))
		defer func() {
			for _, f := range opened {
				_ = f.Close()
			}
		}()
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			opened = append(opened, f)
			uploads = append(uploads, service.FileUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Content:     f,
			})
		}

		texts, err := svc.Upload(c.UserContext(), projectID, uploads)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(texts)
	}
}

// ExportFiles godoc
// @Summary Export a project's texts
// @Description Returns all texts as a ';'-delimited table with a name;text;tag header.
// @Tags files
// @Produce text/csv
// @Param id path string true "Project ID"
// @Success 200 {string} string
// @Failure 404 {object} errorPayload
// @Router /projects/{id}/files [get]
func ExportFiles(svc service.ProjectFileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID := c.Params("id")
		if !validID(projectID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		out, err := svc.Export(c.UserContext(), projectID)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="project-%s.csv"`, projectID))
		return c.Send(out)
	}
}

// ListTexts godoc
// @Summary List a project's texts
// @Tags files
// @Produce json
// @Param id path string true "Project ID"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.TextListResult
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /projects/{id}/texts [get]
func ListTexts(svc service.ProjectFileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID := c.Params("id")
		if !validID(projectID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListTexts(c.UserContext(), projectID, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DeleteFile godoc
// @Summary Delete one text from a project
// @Tags files
// @Param id path string true "Project ID"
// @Param fileId path string true "Text ID"
// @Success 204 "No Content"
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /projects/{id}/files/{fileId} [delete]
func DeleteFile(svc service.ProjectFileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID, textID := c.Params("id"), c.Params("fileId")
		if !validID(projectID) || !validID(textID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.DeleteText(c.UserContext(), projectID, textID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ClearTags godoc
// @Summary Remove the tags of every text in a project
// @Tags files
// @Produce plain
// @Param id path string true "Project ID"
// @Success 200 {string} string "OK"
// @Failure 404 {object} errorPayload
// @Router /projects/{id}/clear [post]
func ClearTags(svc service.ProjectFileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		projectID := c.Params("id")
		if !validID(projectID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.ClearTags(c.UserContext(), projectID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendString("OK")
	}
}
