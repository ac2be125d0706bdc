package app

// PendingConfig holds the values last committed from a Configuring screen.
// A field only changes when its submission succeeds.
type PendingConfig struct {
	ServerAddress string
	DownloadDir   string
	UploadPath    string
}
