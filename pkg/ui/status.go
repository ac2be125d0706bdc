package ui

import (
	"errors"
	"fmt"

	"github.com/rescp17/tuifs/api"
	appevents "github.com/rescp17/tuifs/internal/app_events"
	"github.com/rescp17/tuifs/internal/style"
	"github.com/rescp17/tuifs/internal/util"
)

// StatusLevel represents the severity level of a status
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusSuccess
	StatusWarning
	StatusError
)

// describeStatus turns the machine's last message into a status line.
func describeStatus(msg appevents.AppUIMessage) (StatusLevel, string) {
	switch msg := msg.(type) {
	case appevents.ConnectedMsg:
		return StatusSuccess, fmt.Sprintf("Connected to %s", msg.Address)
	case appevents.ListingRefreshedMsg:
		return StatusInfo, fmt.Sprintf("%d file(s) on server", msg.Count)
	case appevents.UploadCompleteMsg:
		return StatusSuccess, fmt.Sprintf("Uploaded %s (%s)", msg.Name, util.FormatSize(msg.Bytes))
	case appevents.DownloadCompleteMsg:
		return StatusSuccess, fmt.Sprintf("Saved %s to %s (%s)", msg.Name, msg.Path, util.FormatSize(msg.Bytes))
	case appevents.DownloadDirSetMsg:
		return StatusInfo, fmt.Sprintf("Downloads go to %s", msg.Dir)
	case appevents.AppErrorMsg:
		// A failed refresh keeps the previous listing on screen.
		var listErr *api.ListError
		if errors.As(msg.Err, &listErr) {
			return StatusWarning, fmt.Sprintf("Showing last listing: %v", msg.Err)
		}
		return StatusError, fmt.Sprintf("Error: %v", msg.Err)
	default:
		return StatusInfo, ""
	}
}

func renderStatus(level StatusLevel, text string) string {
	switch level {
	case StatusSuccess:
		return style.SuccessStyle.Render(text)
	case StatusWarning:
		return style.WarnStyle.Render(text)
	case StatusError:
		return style.ErrorStyle.Render(text)
	default:
		return text
	}
}
