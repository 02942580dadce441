package config

// RawConfig mirrors the file layout. Pointer fields distinguish unset keys
// from zero values so defaults survive a partial file.
type RawConfig struct {
	Display *string       `yaml:"display"`
	Log     *RawLogConfig `yaml:"log"`
	IPC     *RawIPCConfig `yaml:"ipc"`
}

type RawLogConfig struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}

type RawIPCConfig struct {
	Enabled *bool   `yaml:"enabled"`
	Socket  *string `yaml:"socket"`
}

// BuildEffectiveConfig applies raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.Log != nil {
		if raw.Log.Level != nil {
			cfg.Log.Level = *raw.Log.Level
		}
		if raw.Log.Format != nil {
			cfg.Log.Format = *raw.Log.Format
		}
	}
	if raw.IPC != nil {
		if raw.IPC.Enabled != nil {
			cfg.IPC.Enabled = *raw.IPC.Enabled
		}
		if raw.IPC.Socket != nil {
			cfg.IPC.Socket = *raw.IPC.Socket
		}
	}

	return cfg
}
