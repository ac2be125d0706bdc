package appevents

// AppUIMessage is a marker interface for messages sent from the App's logic controller to the TUI.
// It uses an unexported method so that only types embedding UIMessage satisfy it.
type AppUIMessage interface {
	isUIMessage()
}

// UIMessage is a base struct that can be embedded in other types to implement the AppUIMessage interface.
type UIMessage struct{}

func (UIMessage) isUIMessage() {}

// ConnectedMsg reports a new server connection.
type ConnectedMsg struct {
	UIMessage
	Address string
}

// ListingRefreshedMsg reports a fresh listing of Count remote files.
type ListingRefreshedMsg struct {
	UIMessage
	Count int
}

type UploadCompleteMsg struct {
	UIMessage
	Name  string
	Bytes int64
}

type DownloadCompleteMsg struct {
	UIMessage
	Name  string
	Path  string
	Bytes int64
}

// DownloadDirSetMsg reports a new local download directory.
type DownloadDirSetMsg struct {
	UIMessage
	Dir string
}

// For errors from the App to the TUI
type AppErrorMsg struct {
	UIMessage
	Err error
}

var (
	_ AppUIMessage = ConnectedMsg{}
	_ AppUIMessage = ListingRefreshedMsg{}
	_ AppUIMessage = UploadCompleteMsg{}
	_ AppUIMessage = DownloadCompleteMsg{}
	_ AppUIMessage = DownloadDirSetMsg{}
	_ AppUIMessage = AppErrorMsg{}
)
