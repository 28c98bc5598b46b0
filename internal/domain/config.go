package domain

import "errors"

// ErrNoModels indicates an empty model table.
var ErrNoModels = errors.New("no models configured")

// Config mirrors ~/.codehelper/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	Workspace           WorkspaceSettings `yaml:"workspace"`
	Safety              SafetySettings    `yaml:"safety"`
	Installer           InstallerSettings `yaml:"installer"`
	Cache               CacheSettings     `yaml:"cache"`
	History             HistorySettings   `yaml:"history"`
	Logging             LoggingSettings   `yaml:"logging"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// WorkspaceSettings locates the directories generated artifacts land in.
type WorkspaceSettings struct {
	DataDir string `yaml:"data_dir"`
}

// SafetySettings defines deny-list behavior for terminal commands.
type SafetySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// InstallerSettings controls the project workflow's package installation
// and script execution steps.
type InstallerSettings struct {
	Command                string `yaml:"command"`
	Runner                 string `yaml:"runner"`
	MaxRetries             int    `yaml:"max_retries"`
	RetryDelaySeconds      int    `yaml:"retry_delay"`
	InstallTimeoutSeconds  int    `yaml:"install_timeout"`
	FallbackTimeoutSeconds int    `yaml:"fallback_timeout"`
	RunTimeoutSeconds      int    `yaml:"run_timeout"`
}

// CacheSettings configures the model response cache.
type CacheSettings struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl"`
	MaxEntries int  `yaml:"max_entries"`
}

// HistorySettings toggles dispatch history recording.
type HistorySettings struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingSettings points structured logs at a file.
type LoggingSettings struct {
	File string `yaml:"file"`
}

// ResolveModel returns the definition for name, defaulting to the
// configured default model when name is empty. Unknown names reuse the
// fallback definition with the requested name as the provider model ID,
// so newly released models work without a config edit.
func (c Config) ResolveModel(name string) (ModelDefinition, error) {
	if name == "" {
		name = c.Preferences.DefaultModel
	}
	if len(c.Models) == 0 {
		return ModelDefinition{}, ErrNoModels
	}
	for _, model := range c.Models {
		if model.Name == name {
			return model, nil
		}
	}
	fallback := c.Models[0]
	for _, model := range c.Models {
		if model.Name == FallbackModelName {
			fallback = model
			break
		}
	}
	fallback.Name = name
	fallback.ModelID = name
	return fallback, nil
}
