// Package httpapi serves the public feed over HTTP: listing published items,
// publishing new ones and handing out presigned upload slots. Publishing and
// uploads require a publisher bearer token.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/mediavault/internal/feedapi"
	"github.com/dmitrijs2005/mediavault/internal/logging"
	"github.com/dmitrijs2005/mediavault/internal/server/published"
	"github.com/dmitrijs2005/mediavault/internal/server/storage"
)

// Uploader issues presigned upload slots. *storage.Presigner satisfies it.
type Uploader interface {
	PresignUpload(ctx context.Context, fileName, contentType string) (storage.Upload, error)
}

// Handler holds the dependencies of the API routes.
type Handler struct {
	repo    published.Repository
	uploads Uploader
	logger  logging.Logger
	secret  []byte
}

func NewHandler(repo published.Repository, uploads Uploader, logger logging.Logger, secretKey string) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{
		repo:    repo,
		uploads: uploads,
		logger:  logger.With("module", "httpapi"),
		secret:  []byte(secretKey),
	}
}

// Router wires the API routes.
//
//	GET  /api/health    liveness probe
//	GET  /api/public    published items, newest first (?limit=N)
//	POST /api/public    publish an item (bearer token)
//	POST /api/uploads   presigned upload slot (bearer token)
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(h.logRequests)

	router.HandleFunc(feedapi.PathHealth, h.health).Methods(http.MethodGet)
	router.HandleFunc(feedapi.PathPublic, h.listPublic).Methods(http.MethodGet)

	protected := router.NewRoute().Subrouter()
	protected.Use(h.requirePublisher)
	protected.HandleFunc(feedapi.PathPublic, h.publish).Methods(http.MethodPost)
	protected.HandleFunc(feedapi.PathUploads, h.presignUpload).Methods(http.MethodPost)

	return router
}
