package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentdesk/internal/service"
)

// FileHandler handles tenancy document uploads and downloads.
type FileHandler struct {
	fileService service.FileService
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload handles POST /api/v1/tenancies/:id/files
// @Summary Attach a document to a tenancy
// @Description Upload a contract, ID or cheque scan (PDF, JPG, PNG)
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Tenancy ID"
// @Param file formData file true "File to upload (PDF, JPG, or PNG)"
// @Success 201 {object} Response{data=domain.FileMeta} "File uploaded successfully"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 404 {object} ErrorResponseBody "Tenancy not found"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Security BearerAuth
// @Router /tenancies/{id}/files [post]
func (h *FileHandler) Upload(c *gin.Context) {
	companyID, userID, ok := extractAuthContext(c)
	if !ok {
		return
	}
	tenancyID, ok := paramID(c, "id", "tenancy")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	meta, err := h.fileService.Upload(c.Request.Context(), service.FileUploadInput{
		CompanyID:  companyID,
		TenancyID:  tenancyID,
		UploadedBy: userID,
		File:       file,
		Header:     header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, meta)
}

// List handles GET /api/v1/tenancies/:id/files
// @Summary List tenancy documents
// @Tags files
// @Produce json
// @Param id path string true "Tenancy ID"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.FileMeta,meta=PagMeta} "List of files"
// @Failure 404 {object} ErrorResponseBody "Tenancy not found"
// @Security BearerAuth
// @Router /tenancies/{id}/files [get]
func (h *FileHandler) List(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	tenancyID, ok := paramID(c, "id", "tenancy")
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	files, total, err := h.fileService.ListByTenancy(c.Request.Context(), companyID, tenancyID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, files, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/files/:id
// @Summary Get file by ID
// @Description Get file metadata and a presigned download URL
// @Tags files
// @Produce json
// @Param id path string true "File ID (UUID)"
// @Success 200 {object} Response{data=FileWithDownloadURL} "File metadata with download URL"
// @Failure 404 {object} ErrorResponseBody "File not found"
// @Security BearerAuth
// @Router /files/{id} [get]
func (h *FileHandler) GetByID(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	fileID, ok := paramID(c, "id", "file")
	if !ok {
		return
	}

	meta, err := h.fileService.GetByID(c.Request.Context(), companyID, fileID)
	if err != nil {
		HandleError(c, err)
		return
	}

	downloadURL, err := h.fileService.GetDownloadURL(c.Request.Context(), companyID, fileID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, FileWithDownloadURL{File: meta, DownloadURL: downloadURL})
}

// Delete handles DELETE /api/v1/files/:id
// @Summary Delete a file
// @Tags files
// @Produce json
// @Param id path string true "File ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "File deleted"
// @Failure 404 {object} ErrorResponseBody "File not found"
// @Security BearerAuth
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	companyID, ok := companyContext(c)
	if !ok {
		return
	}
	fileID, ok := paramID(c, "id", "file")
	if !ok {
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), companyID, fileID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "file deleted"})
}
