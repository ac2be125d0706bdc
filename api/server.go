package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rescp17/tuifs/pkg/fileInfo"
	"github.com/rescp17/tuifs/pkg/storage"
)

// Wire protocol paths and headers.
const (
	PathAddFile      = "/addfile"
	PathGetFiles     = "/getfiles"
	PathDownloadFile = "/downloadfile"

	HeaderFileName = "file_name"
	HeaderFileType = "file_type"
	HeaderFile     = "file"

	notFoundBody = "Not Found"
)

// API is the server side request router. It keeps no per-connection state;
// all handlers share one storage service.
type API struct {
	storage *storage.Service
	mux     *http.ServeMux
}

// NewAPI creates and initializes a new API instance.
func NewAPI(store *storage.Service) *API {
	api := &API{
		storage: store,
		mux:     http.NewServeMux(),
	}
	api.registerRoutes()
	return api
}

// ServeHTTP allows the API struct to satisfy the http.Handler interface.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// registerRoutes dispatches on the path only; any method is accepted.
func (a *API) registerRoutes() {
	a.mux.Handle(PathAddFile, loggingMiddleware(http.HandlerFunc(a.AddFileHandler)))
	a.mux.Handle(PathGetFiles, loggingMiddleware(http.HandlerFunc(a.GetFilesHandler)))
	a.mux.Handle(PathDownloadFile, loggingMiddleware(http.HandlerFunc(a.DownloadFileHandler)))
	a.mux.Handle("/", loggingMiddleware(http.HandlerFunc(NotFoundHandler)))
}

// nameHeader reads a percent-encoded file name header. Header values lose
// surrounding spaces in transit, so names always travel escaped.
func nameHeader(r *http.Request, key string) (string, error) {
	name, err := url.PathUnescape(r.Header.Get(key))
	if err != nil {
		return "", fmt.Errorf("malformed %s header: %w", key, err)
	}
	return name, nil
}

// AddFileHandler stores the request body under the name carried by the
// file_name and file_type headers.
func (a *API) AddFileHandler(w http.ResponseWriter, r *http.Request) {
	name, err := nameHeader(r, HeaderFileName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ext, err := nameHeader(r, HeaderFileType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if name == "" {
		http.Error(w, "missing file_name header", http.StatusBadRequest)
		return
	}

	var written int64
	if ext == "" {
		written, err = a.storage.WriteRaw(name, r.Body)
	} else {
		written, err = a.storage.Write(name, ext, r.Body)
	}
	if err != nil {
		writeStorageError(w, r, err)
		return
	}
	slog.Info("File added", "file", fileInfo.JoinName(name, ext), "bytes", written, "session", r.Header.Get(sessionIDHeader))
	w.WriteHeader(http.StatusOK)
}

// GetFilesHandler answers with the JSON listing of the storage directory.
func (a *API) GetFilesHandler(w http.ResponseWriter, r *http.Request) {
	names, err := a.storage.List()
	if err != nil {
		writeStorageError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(names); err != nil {
		slog.Error("Failed to encode listing", "error", err)
	}
}

// DownloadFileHandler streams the stored file named by the file header.
func (a *API) DownloadFileHandler(w http.ResponseWriter, r *http.Request) {
	name, err := nameHeader(r, HeaderFile)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if name == "" {
		http.Error(w, "missing file header", http.StatusBadRequest)
		return
	}

	f, info, err := a.storage.Open(name)
	if err != nil {
		writeStorageError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", fileInfo.DetectMimeType(f.Name()))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.WriteHeader(http.StatusOK)
	n, err := io.Copy(w, f)
	if err != nil {
		// Headers are gone; the client sees a short body.
		slog.Error("Failed to stream file", "file", name, "sent", n, "error", err)
		return
	}
	slog.Info("File downloaded", "file", name, "bytes", n, "session", r.Header.Get(sessionIDHeader))
}

// NotFoundHandler is the catch-all for unknown paths.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, notFoundBody)
}

// writeStorageError maps storage failures onto HTTP statuses.
func writeStorageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrNotFound):
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, notFoundBody)
	default:
		slog.Error("Storage failure", "path", r.URL.Path, "error", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
	}
}

// statusRecorder captures what a handler wrote for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(p)
	s.bytes += int64(n)
	return n, err
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		slog.Debug("Request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"took", time.Since(start),
			"session", r.Header.Get(sessionIDHeader),
			"remote", r.RemoteAddr,
		)
	})
}
