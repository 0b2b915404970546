package log

// Logger modes.
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// Encodings.
const (
	EncodingConsole = "console"
	EncodingJSON    = "json"
)

// DefaultLevel applies when the configured level is empty or unknown.
const DefaultLevel = "info"
