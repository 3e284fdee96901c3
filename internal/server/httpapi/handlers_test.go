package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mediavault/internal/archive"
	"github.com/dmitrijs2005/mediavault/internal/common"
	"github.com/dmitrijs2005/mediavault/internal/feedapi"
	"github.com/dmitrijs2005/mediavault/internal/server/auth"
	"github.com/dmitrijs2005/mediavault/internal/server/published"
	"github.com/dmitrijs2005/mediavault/internal/server/storage"
)

const testSecret = "test-secret"

type fakeUploader struct {
	err      error
	gotName  string
	gotType  string
	requests int
}

func (f *fakeUploader) PresignUpload(_ context.Context, fileName, contentType string) (storage.Upload, error) {
	f.requests++
	f.gotName, f.gotType = fileName, contentType
	if f.err != nil {
		return storage.Upload{}, f.err
	}
	return storage.Upload{
		Key:       "uploads/k/" + fileName,
		UploadURL: "http://s3.local/put?sig=1",
		URL:       "https://cdn.example.com/uploads/k/" + fileName,
	}, nil
}

type failingRepo struct{}

func (failingRepo) Put(context.Context, archive.Item, string) error {
	return common.ErrStorageUnavailable
}
func (failingRepo) List(context.Context, int) ([]archive.Item, error) {
	return nil, common.ErrStorageUnavailable
}

func newTestServer(t *testing.T, repo published.Repository, up Uploader) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewHandler(repo, up, nil, testSecret).Router())
	t.Cleanup(srv.Close)
	return srv
}

func token(t *testing.T, validity time.Duration) string {
	t.Helper()
	tok, err := auth.GenerateToken("studio", []byte(testSecret), validity)
	require.NoError(t, err)
	return tok
}

func doJSON(t *testing.T, method, url, tok string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func linkItem(id string, ts int64) archive.Item {
	return archive.Item{
		ID: id, Title: "Link " + id, Type: archive.TypeLink, Image: archive.PlaceholderImage,
		Content: archive.RemoteContent{URL: "https://example.com/" + id}, Timestamp: ts, IsExternal: true,
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, published.NewMemoryRepository(), nil)

	resp := doJSON(t, http.MethodGet, srv.URL+feedapi.PathHealth, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])
}

func TestPublishThenList(t *testing.T) {
	repo := published.NewMemoryRepository()
	srv := newTestServer(t, repo, nil)
	tok := token(t, time.Hour)

	resp := doJSON(t, http.MethodPost, srv.URL+feedapi.PathPublic, tok, linkItem("a", 1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "a", decode[feedapi.PublishResponse](t, resp).ID)

	resp = doJSON(t, http.MethodPost, srv.URL+feedapi.PathPublic, tok, linkItem("b", 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+feedapi.PathPublic, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[feedapi.PublicListResponse](t, resp)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "b", list.Items[0].ID)
	assert.Equal(t, archive.RemoteContent{URL: "https://example.com/b"}, list.Items[0].Content)

	resp = doJSON(t, http.MethodGet, srv.URL+feedapi.PathPublic+"?limit=1", "", nil)
	assert.Len(t, decode[feedapi.PublicListResponse](t, resp).Items, 1)
}

func TestListEmptyIsArray(t *testing.T) {
	srv := newTestServer(t, published.NewMemoryRepository(), nil)

	resp := doJSON(t, http.MethodGet, srv.URL+feedapi.PathPublic, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw := decode[map[string]json.RawMessage](t, resp)
	assert.Equal(t, "[]", string(raw["items"]))
}

func TestListBadLimit(t *testing.T) {
	srv := newTestServer(t, published.NewMemoryRepository(), nil)

	resp := doJSON(t, http.MethodGet, srv.URL+feedapi.PathPublic+"?limit=-3", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPublishAuth(t *testing.T) {
	srv := newTestServer(t, published.NewMemoryRepository(), nil)

	tests := []struct {
		name    string
		tok     string
		wantMsg string
	}{
		{name: "missing", tok: "", wantMsg: "missing bearer token"},
		{name: "garbage", tok: "not.a.jwt", wantMsg: "invalid token"},
		{name: "expired", tok: token(t, -time.Minute), wantMsg: "token expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+feedapi.PathPublic, tt.tok, linkItem("a", 1))
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tt.wantMsg, decode[feedapi.ErrorResponse](t, resp).Error)
		})
	}
}

func TestPublishRejectsInvalidItems(t *testing.T) {
	repo := published.NewMemoryRepository()
	srv := newTestServer(t, repo, nil)
	tok := token(t, time.Hour)

	noTitle := linkItem("a", 1)
	noTitle.Title = ""
	local := linkItem("b", 1)
	local.Type = archive.TypeDocument
	local.Content = archive.LocalBinary{Data: []byte("x"), MimeHint: "text/plain"}

	for name, it := range map[string]archive.Item{"no title": noTitle, "local payload": local} {
		t.Run(name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+feedapi.PathPublic, tok, it)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	req, err := http.NewRequest(http.MethodPost, srv.URL+feedapi.PathPublic, strings.NewReader("{not json"))
	require.NoError(t, err)
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	items, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepositoryFailure(t *testing.T) {
	srv := newTestServer(t, failingRepo{}, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+feedapi.PathPublic, "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+feedapi.PathPublic, token(t, time.Hour), linkItem("a", 1))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestPresignUpload(t *testing.T) {
	up := &fakeUploader{}
	srv := newTestServer(t, published.NewMemoryRepository(), up)
	tok := token(t, time.Hour)

	resp := doJSON(t, http.MethodPost, srv.URL+feedapi.PathUploads, tok,
		feedapi.UploadRequest{FileName: "clip.mp4", ContentType: "video/mp4", Size: 1024})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[feedapi.UploadResponse](t, resp)
	assert.Equal(t, "uploads/k/clip.mp4", got.Key)
	assert.Equal(t, "http://s3.local/put?sig=1", got.UploadURL)
	assert.Equal(t, "https://cdn.example.com/uploads/k/clip.mp4", got.URL)
	assert.Equal(t, "video/mp4", up.gotType)
}

func TestPresignUpload_Errors(t *testing.T) {
	tok := token(t, time.Hour)

	t.Run("unauthenticated", func(t *testing.T) {
		up := &fakeUploader{}
		srv := newTestServer(t, published.NewMemoryRepository(), up)
		resp := doJSON(t, http.MethodPost, srv.URL+feedapi.PathUploads, "", feedapi.UploadRequest{FileName: "a"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Zero(t, up.requests)
	})

	t.Run("missing name", func(t *testing.T) {
		srv := newTestServer(t, published.NewMemoryRepository(), &fakeUploader{})
		resp := doJSON(t, http.MethodPost, srv.URL+feedapi.PathUploads, tok, feedapi.UploadRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("too large", func(t *testing.T) {
		srv := newTestServer(t, published.NewMemoryRepository(), &fakeUploader{})
		resp := doJSON(t, http.MethodPost, srv.URL+feedapi.PathUploads, tok,
			feedapi.UploadRequest{FileName: "a", Size: MaxUploadSize + 1})
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	})

	t.Run("not configured", func(t *testing.T) {
		srv := newTestServer(t, published.NewMemoryRepository(), nil)
		resp := doJSON(t, http.MethodPost, srv.URL+feedapi.PathUploads, tok, feedapi.UploadRequest{FileName: "a"})
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("storage failure", func(t *testing.T) {
		srv := newTestServer(t, published.NewMemoryRepository(), &fakeUploader{err: errors.New("s3 down")})
		resp := doJSON(t, http.MethodPost, srv.URL+feedapi.PathUploads, tok, feedapi.UploadRequest{FileName: "a"})
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, published.NewMemoryRepository(), nil)

	resp := doJSON(t, http.MethodDelete, srv.URL+feedapi.PathPublic, "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
