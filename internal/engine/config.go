package engine

import (
	"time"
)

// PageSize is the logical page extent used for pagination bookkeeping.
type PageSize struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Margins shrink the usable page area.
type Margins struct {
	Top    float64 `yaml:"top" json:"top"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Left   float64 `yaml:"left" json:"left"`
	Right  float64 `yaml:"right" json:"right"`
}

// RunConfig controls a single report run.
type RunConfig struct {
	// Locale overrides the definition's default locale.
	Locale string

	PageSize PageSize
	Margins  Margins

	// ChunkSize is a streaming batch size hint passed through to drivers.
	ChunkSize int

	// MemoryLimitMB is advisory; the engine itself allocates per record.
	MemoryLimitMB int

	// TimeoutPerRecord bounds each record pull. Zero disables the bound.
	TimeoutPerRecord time.Duration
}

// DefaultRunConfig returns the defaults for a run: A4 page in points,
// half-inch margins, no per-record timeout.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Locale:    "",
		PageSize:  PageSize{Width: 595, Height: 842},
		Margins:   Margins{Top: 36, Bottom: 36, Left: 36, Right: 36},
		ChunkSize: 100,
	}
}

// usableHeight is the vertical page space available to bands.
func (c RunConfig) usableHeight() float64 {
	h := c.PageSize.Height - c.Margins.Top - c.Margins.Bottom
	if h < 0 {
		return 0
	}
	return h
}

// RunConfigFromOptions builds a config from a loose option map.
// Recognized keys: locale, pageSize, margins, chunkSize, memoryLimitMB,
// timeoutPerRecord. Unrecognized keys are ignored, not rejected, so newer
// callers can pass options an older engine does not know yet.
func RunConfigFromOptions(options map[string]any) RunConfig {
	cfg := DefaultRunConfig()

	if v, ok := options["locale"].(string); ok {
		cfg.Locale = v
	}
	if v, ok := options["pageSize"].(map[string]any); ok {
		if w, ok := keyFloat(v["width"]); ok {
			cfg.PageSize.Width = w
		}
		if h, ok := keyFloat(v["height"]); ok {
			cfg.PageSize.Height = h
		}
	}
	if v, ok := options["margins"].(map[string]any); ok {
		if m, ok := keyFloat(v["top"]); ok {
			cfg.Margins.Top = m
		}
		if m, ok := keyFloat(v["bottom"]); ok {
			cfg.Margins.Bottom = m
		}
		if m, ok := keyFloat(v["left"]); ok {
			cfg.Margins.Left = m
		}
		if m, ok := keyFloat(v["right"]); ok {
			cfg.Margins.Right = m
		}
	}
	if v, ok := keyFloat(options["chunkSize"]); ok && v > 0 {
		cfg.ChunkSize = int(v)
	}
	if v, ok := keyFloat(options["memoryLimitMB"]); ok && v > 0 {
		cfg.MemoryLimitMB = int(v)
	}
	switch v := options["timeoutPerRecord"].(type) {
	case time.Duration:
		cfg.TimeoutPerRecord = v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TimeoutPerRecord = d
		}
	case int, int64, float64:
		if ms, ok := keyFloat(v); ok {
			cfg.TimeoutPerRecord = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg
}
