package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescp17/tuifs/pkg/storage"
)

func newTestAPI(t *testing.T) (*API, *storage.Service) {
	t.Helper()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return NewAPI(store), store
}

func serve(api *API, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	return rec
}

func TestGetFiles_ListsStorageDirectory(t *testing.T) {
	api, store := newTestAPI(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "b.png"), []byte("b"), 0o644))

	rec := serve(api, httptest.NewRequest(http.MethodGet, PathGetFiles, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.ElementsMatch(t, []string{"a.txt", "b.png"}, names)
}

func TestGetFiles_EmptyIsArray(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := serve(api, httptest.NewRequest(http.MethodGet, PathGetFiles, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetFiles_UnreadableDirectoryIs500(t *testing.T) {
	api, store := newTestAPI(t)
	require.NoError(t, os.RemoveAll(store.Dir()))

	rec := serve(api, httptest.NewRequest(http.MethodGet, PathGetFiles, nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAddFile_WritesNameDotExtension(t *testing.T) {
	api, store := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, PathAddFile, strings.NewReader("quarterly numbers"))
	req.Header.Set(HeaderFileName, "report")
	req.Header.Set(HeaderFileType, "txt")
	rec := serve(api, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	data, err := os.ReadFile(filepath.Join(store.Dir(), "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "quarterly numbers", string(data))
}

func TestAddFile_WithoutExtension(t *testing.T) {
	api, store := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, PathAddFile, strings.NewReader("all:\n"))
	req.Header.Set(HeaderFileName, "Makefile")
	rec := serve(api, req)

	require.Equal(t, http.StatusOK, rec.Code)
	_, err := os.Stat(filepath.Join(store.Dir(), "Makefile"))
	assert.NoError(t, err)
}

func TestAddFile_BadNames(t *testing.T) {
	api, _ := newTestAPI(t)

	missing := httptest.NewRequest(http.MethodPost, PathAddFile, strings.NewReader("x"))
	assert.Equal(t, http.StatusBadRequest, serve(api, missing).Code)

	traversal := httptest.NewRequest(http.MethodPost, PathAddFile, strings.NewReader("x"))
	traversal.Header.Set(HeaderFileName, "../../etc/passwd")
	traversal.Header.Set(HeaderFileType, "txt")
	assert.Equal(t, http.StatusBadRequest, serve(api, traversal).Code)
}

func TestAddFile_DecodesEscapedNames(t *testing.T) {
	api, store := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, PathAddFile, strings.NewReader("x"))
	req.Header.Set(HeaderFileName, "%20notes%20")
	req.Header.Set(HeaderFileType, "txt")
	require.Equal(t, http.StatusOK, serve(api, req).Code)

	_, err := os.Stat(filepath.Join(store.Dir(), " notes .txt"))
	assert.NoError(t, err)

	malformed := httptest.NewRequest(http.MethodPost, PathAddFile, strings.NewReader("x"))
	malformed.Header.Set(HeaderFileName, "bad%zz")
	assert.Equal(t, http.StatusBadRequest, serve(api, malformed).Code)

	encodedSlash := httptest.NewRequest(http.MethodPost, PathAddFile, strings.NewReader("x"))
	encodedSlash.Header.Set(HeaderFileName, "..%2Fescape")
	assert.Equal(t, http.StatusBadRequest, serve(api, encodedSlash).Code)
}

func TestDownloadFile_StreamsStoredFile(t *testing.T) {
	api, store := newTestAPI(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "a.txt"), []byte("hello there"), 0o644))

	req := httptest.NewRequest(http.MethodGet, PathDownloadFile, nil)
	req.Header.Set(HeaderFile, "a.txt")
	rec := serve(api, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello there", rec.Body.String())
	assert.Equal(t, "11", rec.Header().Get("Content-Length"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestDownloadFile_Errors(t *testing.T) {
	api, _ := newTestAPI(t)

	missingHeader := httptest.NewRequest(http.MethodGet, PathDownloadFile, nil)
	assert.Equal(t, http.StatusBadRequest, serve(api, missingHeader).Code)

	unknown := httptest.NewRequest(http.MethodGet, PathDownloadFile, nil)
	unknown.Header.Set(HeaderFile, "nope.txt")
	rec := serve(api, unknown)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", rec.Body.String())

	escape := httptest.NewRequest(http.MethodGet, PathDownloadFile, nil)
	escape.Header.Set(HeaderFile, "../secret")
	assert.Equal(t, http.StatusBadRequest, serve(api, escape).Code)
}

func TestUnknownPathsAre404(t *testing.T) {
	api, _ := newTestAPI(t)

	for _, path := range []string{"/", "/getfile", "/addfile/extra", "/GETFILES", "/favicon.ico"} {
		rec := serve(api, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		body, _ := io.ReadAll(rec.Body)
		assert.Equal(t, "Not Found", string(body), path)
	}
}
