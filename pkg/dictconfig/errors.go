package dictconfig

import "errors"

var (
	// ErrConfigFileRead indicates an explicitly named config file exists
	// on disk but could not be read.
	//
	// Recovery: check the path's permissions; this is an environment
	// problem, not a programming error.
	ErrConfigFileRead = errors.New("dictconfig: failed to read config file")

	// ErrConfigInvalid indicates a config file's contents failed to parse
	// as JSONC or failed validation.
	//
	// Recovery: fix the offending file; the wrapped error names the field.
	ErrConfigInvalid = errors.New("dictconfig: invalid config")

	// ErrResizeModeInvalid indicates a resize_mode value other than
	// "enable", "avoid", or "forbid".
	ErrResizeModeInvalid = errors.New("dictconfig: resize_mode must be enable, avoid, or forbid")
)
