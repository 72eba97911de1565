package errors

import "fmt"

// Common error types.
var (
	// Input errors.
	ErrMalformedInput = fmt.Errorf("malformed input")

	// Lookup errors.
	ErrNotFound             = fmt.Errorf("not found")
	ErrInstallationNotFound = fmt.Errorf("installation not found")
	ErrNotImplemented       = fmt.Errorf("not implemented")

	// Install errors.
	ErrArchiveIntegrity = fmt.Errorf("archive integrity violated")
	ErrExternalTool     = fmt.Errorf("external tool failed")
	ErrDownloadFailed   = fmt.Errorf("download failed")
	ErrInvalidPath      = fmt.Errorf("invalid path")

	// Config errors.
	ErrEmptyConfigPath     = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath   = fmt.Errorf("invalid config file path")
	ErrConfigParse         = fmt.Errorf("failed to parse config")
	ErrConfigValidation    = fmt.Errorf("invalid configuration")
	ErrConfigEncode        = fmt.Errorf("failed to encode config")
	ErrConfigDirectory     = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate    = fmt.Errorf("failed to create config file")
	ErrConfigFileRename    = fmt.Errorf("failed to rename config file")
	ErrConfigUnknownKey    = fmt.Errorf("unknown configuration key")
	ErrHTTPTimeoutNegative = fmt.Errorf("http_timeout must be non-negative")
	ErrCacheTTLNegative    = fmt.Errorf("cache_ttl must be non-negative")

	// Kernel errors.
	ErrKernelNotFound = fmt.Errorf("kernel not found")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// InvalidLogLevel reports a log level that is not one of debug, info, warn or error.
func InvalidLogLevel(level string) error {
	return fmt.Errorf("invalid log level %q (must be one of: debug, info, warn, error): %w", level, ErrConfigValidation)
}

// InvalidLogFormat reports a log format that is not text or json.
func InvalidLogFormat(format string) error {
	return fmt.Errorf("invalid log format %q (must be text or json): %w", format, ErrConfigValidation)
}

// InvalidTarExtractor reports an unknown tar.xz extraction mode.
func InvalidTarExtractor(mode string) error {
	return fmt.Errorf("invalid tar extractor %q (must be external or builtin): %w", mode, ErrConfigValidation)
}
