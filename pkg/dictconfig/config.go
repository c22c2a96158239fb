// Package dictconfig loads the tuning knobs a dict.Dict otherwise treats
// as hardcoded constants — initial bucket exponent, the force-resize
// ratio, the minimum-fill divisor, and the global resize mode — from a
// JSONC file.
package dictconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// FileName is the default config file name looked for in a project's
// working directory.
const FileName = ".dictrc.hujson"

// Config holds the tunable knobs for one or more [dict.Dict] instances.
// It is not wired into dict.Dict directly (the core engine stays
// dependency-free); callers read a Config and apply its fields to a
// dict.Dict after construction.
type Config struct {
	// InitialExp is the bucket-count exponent a half starts at once it
	// first allocates (2^InitialExp buckets).
	InitialExp int8 `json:"initial_exp"`

	// ForceResizeRatio is R: used/capacity that forces a grow even under
	// the "avoid" resize mode.
	ForceResizeRatio float64 `json:"force_resize_ratio"`

	// MinFillDivisor is M: used*M <= capacity triggers a shrink.
	MinFillDivisor float64 `json:"min_fill_divisor"`

	// ResizeMode is one of "enable", "avoid", "forbid".
	ResizeMode string `json:"resize_mode"`
}

// DefaultConfig mirrors the hardcoded defaults in package dict's
// limits.go, so a Config zero-initialized this way is a no-op overlay.
func DefaultConfig() Config {
	return Config{
		InitialExp:       2,
		ForceResizeRatio: 4.0,
		MinFillDivisor:   8.0,
		ResizeMode:       "enable",
	}
}

// Load reads dir/.dictrc.hujson if present, overlaying it onto
// DefaultConfig; a missing file is not an error. Comments and trailing
// commas in the file are accepted (it's JSONC via hujson.Standardize).
func Load(dir string) (Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	overlay, err := parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	merge(&cfg, overlay)

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, nil
}

func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

func merge(base *Config, overlay Config) {
	if overlay.InitialExp != 0 {
		base.InitialExp = overlay.InitialExp
	}
	if overlay.ForceResizeRatio != 0 {
		base.ForceResizeRatio = overlay.ForceResizeRatio
	}
	if overlay.MinFillDivisor != 0 {
		base.MinFillDivisor = overlay.MinFillDivisor
	}
	if overlay.ResizeMode != "" {
		base.ResizeMode = overlay.ResizeMode
	}
}

func validate(cfg Config) error {
	switch cfg.ResizeMode {
	case "enable", "avoid", "forbid":
	default:
		return ErrResizeModeInvalid
	}
	if cfg.InitialExp < 0 || cfg.InitialExp > 63 {
		return fmt.Errorf("initial_exp must be within [0, 63]")
	}
	if cfg.ForceResizeRatio <= 0 {
		return fmt.Errorf("force_resize_ratio must be positive")
	}
	if cfg.MinFillDivisor <= 0 {
		return fmt.Errorf("min_fill_divisor must be positive")
	}
	return nil
}
