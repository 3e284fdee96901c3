// Package feedapi is the JSON contract between the archive shell and the
// public feed server.
package feedapi

import "github.com/dmitrijs2005/mediavault/internal/archive"

const (
	PathHealth  = "/api/health"
	PathPublic  = "/api/public"
	PathUploads = "/api/uploads"
)

// PublicListResponse is returned by GET /api/public, newest first.
type PublicListResponse struct {
	Items []archive.Item `json:"items"`
}

// PublishResponse is returned by POST /api/public.
type PublishResponse struct {
	ID string `json:"id"`
}

// UploadRequest asks the server for a presigned upload slot.
type UploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// UploadResponse carries the presigned PUT target and the durable URL the
// object will be reachable at once the PUT succeeds.
type UploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	URL       string `json:"url"`
}

// ErrorResponse is the body of every non-2xx API reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
