package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rescp17/tuifs/api"
	appevents "github.com/rescp17/tuifs/internal/app_events"
)

func TestDescribeStatus(t *testing.T) {
	tests := []struct {
		name  string
		msg   appevents.AppUIMessage
		level StatusLevel
		text  string
	}{
		{"none", nil, StatusInfo, ""},
		{"connected", appevents.ConnectedMsg{Address: "h:1"}, StatusSuccess, "Connected to h:1"},
		{"listing", appevents.ListingRefreshedMsg{Count: 2}, StatusInfo, "2 file(s) on server"},
		{"download dir", appevents.DownloadDirSetMsg{Dir: "/tmp/x"}, StatusInfo, "Downloads go to /tmp/x"},
		{
			"stale listing",
			appevents.AppErrorMsg{Err: &api.ListError{Kind: api.ListTransport, Err: errors.New("reset")}},
			StatusWarning,
			"Showing last listing",
		},
		{"error", appevents.AppErrorMsg{Err: api.ErrNoSelection}, StatusError, "Error: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, text := describeStatus(tt.msg)
			assert.Equal(t, tt.level, level)
			if tt.text == "" {
				assert.Empty(t, text)
				return
			}
			assert.Contains(t, text, tt.text)
		})
	}
}
