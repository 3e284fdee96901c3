package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/feedapi"
	"github.com/dmitrijs2005/mediavault/internal/server/published"
)

const (
	maxBodyBytes = 1 << 20
	// MaxUploadSize caps the payload size a client may announce for upload.
	MaxUploadSize = 512 << 20
)

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listPublic(w http.ResponseWriter, r *http.Request) {
	limit := published.DefaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, published.DefaultLimit)
	}

	items, err := h.repo.List(r.Context(), limit)
	if err != nil {
		h.logger.Error(r.Context(), "list published items", "err", err)
		writeError(w, http.StatusInternalServerError, "feed unavailable")
		return
	}
	if items == nil {
		items = []archive.Item{}
	}
	writeJSON(w, http.StatusOK, feedapi.PublicListResponse{Items: items})
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	publisher, _ := PublisherFromContext(r.Context())

	var it archive.Item
	if err := decodeBody(r, &it); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := it.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !it.IsDurable() {
		writeError(w, http.StatusBadRequest, "item content is not durable; upload it first")
		return
	}

	if err := h.repo.Put(r.Context(), it.Metadata(), publisher); err != nil {
		h.logger.Error(r.Context(), "publish item", "item_id", it.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "feed unavailable")
		return
	}

	h.logger.Info(r.Context(), "item published", "item_id", it.ID, "publisher", publisher)
	writeJSON(w, http.StatusCreated, feedapi.PublishResponse{ID: it.ID})
}

func (h *Handler) presignUpload(w http.ResponseWriter, r *http.Request) {
	var req feedapi.UploadRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.FileName) == "" {
		writeError(w, http.StatusBadRequest, "fileName is required")
		return
	}
	if req.Size < 0 || req.Size > MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}
	if h.uploads == nil {
		writeError(w, http.StatusServiceUnavailable, "uploads are not configured")
		return
	}

	up, err := h.uploads.PresignUpload(r.Context(), req.FileName, req.ContentType)
	if err != nil {
		h.logger.Error(r.Context(), "presign upload", "file", req.FileName, "err", err)
		writeError(w, http.StatusBadGateway, "object storage unavailable")
		return
	}

	writeJSON(w, http.StatusOK, feedapi.UploadResponse{Key: up.Key, UploadURL: up.UploadURL, URL: up.URL})
}

func decodeBody(r *http.Request, dest any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return errors.New("malformed JSON body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, feedapi.ErrorResponse{Error: msg})
}
