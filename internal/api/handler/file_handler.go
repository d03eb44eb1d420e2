package handler

import (
	"errors"
	"fmt"
	"io"
	"judge_web/internal/api/middleware"
	"judge_web/internal/app/service"
	"judge_web/internal/common"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type FileHandler struct {
	*Pages
	fileService *service.FileService
}

func NewFileHandler(pages *Pages, fs *service.FileService) *FileHandler {
	return &FileHandler{Pages: pages, fileService: fs}
}

func (h *FileHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireUser).Get("/files/{fileID}/download", h.download)
}

// download streams a stored file from the backend as an attachment.
func (h *FileHandler) download(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	dl, err := h.fileService.Download(r.Context(), h.auth(r), fileID)
	if err != nil {
		log.Printf("ERROR: download file %s: %v", fileID, err)
		if errors.Is(err, common.ErrUnauthorized) {
			h.sessions.Forget(r.Context(), h.session(r))
		}
		status := common.HTTPStatusFromError(err)
		http.Error(w, fmt.Sprintf("Error while downloading file (%d)", status), status)
		return
	}
	defer dl.Body.Close()

	q := r.URL.Query()
	name := service.DownloadName(q.Get("title"), q.Get("kind"), dl.ContentType)
	contentType := dl.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if dl.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(dl.ContentLength, 10))
	}
	if _, err := io.Copy(w, dl.Body); err != nil {
		log.Printf("WARN: download file %s: copy interrupted: %v", fileID, err)
	}
}
