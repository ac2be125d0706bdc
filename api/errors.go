package api

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrNoSelection      = errors.New("no remote file selected")
)

// ConnectError is returned when an address cannot be parsed, reached or
// handshaken with. No client is produced.
type ConnectError struct {
	Address string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to %q: %v", e.Address, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ListErrorKind tells which stage of a listing fetch failed.
type ListErrorKind int

const (
	ListTransport ListErrorKind = iota
	ListStatus
	ListBody
	ListDecode
)

func (k ListErrorKind) String() string {
	switch k {
	case ListTransport:
		return "transport"
	case ListStatus:
		return "status"
	case ListBody:
		return "body"
	case ListDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// ListError is returned by ListFiles. The caller keeps its previous listing.
type ListError struct {
	Kind   ListErrorKind
	Status int
	Err    error
}

func (e *ListError) Error() string {
	if e.Kind == ListStatus {
		return fmt.Sprintf("listing failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("listing failed (%s): %v", e.Kind, e.Err)
}

func (e *ListError) Unwrap() error { return e.Err }

type UploadErrorKind int

const (
	// UploadCannotOpen means the local path is a directory or unreadable.
	// The network is never touched.
	UploadCannotOpen UploadErrorKind = iota
	UploadTransport
)

type UploadError struct {
	Kind UploadErrorKind
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	if e.Kind == UploadCannotOpen {
		return fmt.Sprintf("cannot open %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("upload of %s failed: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// DownloadError covers local file creation and streaming failures.
// A partial local file may remain.
type DownloadError struct {
	Name string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s failed: %v", e.Name, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// IsCannotOpen reports whether err is an upload that never left the machine.
func IsCannotOpen(err error) bool {
	var uerr *UploadError
	return errors.As(err, &uerr) && uerr.Kind == UploadCannotOpen
}
