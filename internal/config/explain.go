package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and where it
// came from.
//
// Supported paths:
//
//	display
//	log.level
//	log.format
//	ipc.enabled
//	ipc.socket
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch strings.TrimSpace(path) {
	case "display":
		return cfg.Display, nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.format":
		return cfg.Log.Format, nil
	case "ipc.enabled":
		return cfg.IPC.Enabled, nil
	case "ipc.socket":
		return cfg.IPC.Socket, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

// FormatSource renders src for CLI output.
func FormatSource(src Source) string {
	if src.Kind == SourceFile && src.File != "" {
		return fmt.Sprintf("%s:%d:%d", src.File, src.Line, src.Column)
	}
	return string(SourceDefault)
}
