package version

const (
	AppName    = "Voice Warden"
	AppVersion = "0.2.0"
)
