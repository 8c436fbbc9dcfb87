package model

// Bot lifecycle status constants.
const (
	StatusOffline   = "offline"
	StatusDeploying = "deploying"
	StatusOnline    = "online"
	StatusStopped   = "stopped"
	StatusError     = "error"
)

// Supported chat platforms.
const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"
)

// Supported scripting runtimes.
const (
	RuntimePython = "python"
	RuntimeNodeJS = "nodejs"
	RuntimePHP    = "php"
)

// Log severity levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// ValidPlatform reports whether p is a supported platform.
func ValidPlatform(p string) bool {
	return p == PlatformTelegram || p == PlatformDiscord
}

// ValidRuntime reports whether r is a supported runtime.
func ValidRuntime(r string) bool {
	return r == RuntimePython || r == RuntimeNodeJS || r == RuntimePHP
}
