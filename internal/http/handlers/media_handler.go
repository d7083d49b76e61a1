package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/mekaniko-ph/mekaniko-backend/internal/dto"
	"github.com/mekaniko-ph/mekaniko-backend/internal/http/handlers/common"
	"github.com/mekaniko-ph/mekaniko-backend/internal/storage"
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MediaHandler accepts photo uploads for concern, before/after and dispute
// evidence photos.
type MediaHandler struct {
	storage *storage.PhotoStorage
}

func NewMediaHandler(storage *storage.PhotoStorage) *MediaHandler {
	return &MediaHandler{storage: storage}
}

// UploadPhoto handles POST /media/photos.
func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	auth, err := common.CurrentAuth(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "field file is required")
		return
	}
	if file.Size == 0 {
		common.RespondBadRequest(c, "file cannot be empty")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		common.RespondBadRequest(c, "unsupported file format, only images are allowed")
		return
	}

	src, err := file.Open()
	if err != nil {
		common.HandleError(c, err)
		return
	}
	defer src.Close()

	// Sniff the magic bytes; the extension alone is not trusted.
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		common.RespondBadRequest(c, "could not read file")
		return
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		common.RespondBadRequest(c, "could not determine file type, only images are allowed")
		return
	}
	if !allowedMimeTypes[kind.MIME.Value] {
		common.RespondBadRequest(c, fmt.Sprintf("unsupported file type (%s), only images are allowed", kind.MIME.Value))
		return
	}

	expectedExt := "." + kind.Extension
	if ext != expectedExt && !(ext == ".jpg" && expectedExt == ".jpeg") && !(ext == ".jpeg" && expectedExt == ".jpg") {
		common.RespondBadRequest(c, fmt.Sprintf("file extension (%s) does not match the actual type (%s)", ext, expectedExt))
		return
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			common.HandleError(c, err)
			return
		}
	}

	relativePath, size, err := h.storage.Save(c.Request.Context(), auth.AccountID, file.Filename, src)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, dto.UploadResponse{
		Path: relativePath,
		URL:  "/media/" + filepath.ToSlash(relativePath),
		Size: size,
	})
}
