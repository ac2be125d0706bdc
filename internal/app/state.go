package app

// Screen is one mode of the client. The set is closed: only the types in
// this file implement it.
type Screen interface {
	isScreen()
	String() string
}

type StartScreen struct{}

type ServerFilesScreen struct{}

// UploadingScreen is shown while an upload is pending or running.
type UploadingScreen struct{}

// DownloadingScreen is shown while a download is pending or running.
type DownloadingScreen struct{}

// ConfiguringScreen collects typed input for Target.
type ConfiguringScreen struct {
	Target ConfigTarget
}

func (StartScreen) isScreen()       {}
func (ServerFilesScreen) isScreen() {}
func (UploadingScreen) isScreen()   {}
func (DownloadingScreen) isScreen() {}
func (ConfiguringScreen) isScreen() {}

func (StartScreen) String() string       { return "start" }
func (ServerFilesScreen) String() string { return "server files" }
func (UploadingScreen) String() string   { return "uploading" }
func (DownloadingScreen) String() string { return "downloading" }
func (s ConfiguringScreen) String() string {
	return "configuring " + s.Target.String()
}

// ConfigTarget says what a Configuring screen is editing.
type ConfigTarget int

const (
	ServerLocation ConfigTarget = iota
	DownloadLocation
	UploadLocation
)

func (t ConfigTarget) String() string {
	switch t {
	case ServerLocation:
		return "server location"
	case DownloadLocation:
		return "download location"
	case UploadLocation:
		return "upload location"
	default:
		return "unknown"
	}
}

var (
	_ Screen = StartScreen{}
	_ Screen = ServerFilesScreen{}
	_ Screen = UploadingScreen{}
	_ Screen = DownloadingScreen{}
	_ Screen = ConfiguringScreen{}
)
