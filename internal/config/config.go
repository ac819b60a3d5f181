package config

import (
	"fmt"
	"os"
	"path/filepath"

	"cubeproc/internal/logger"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Paths    PathsConfig    `toml:"paths"`
	Run      RunConfig      `toml:"run"`
	Settings SettingsConfig `toml:"settings"`
	AI       AIConfig       `toml:"ai"`
	UI       UIConfig       `toml:"ui"`
	Watch    WatchConfig    `toml:"watch"`
	Log      LogConfig      `toml:"log"`
}

// PathsConfig holds default run inputs. Any of them may be overridden on the command line.
type PathsConfig struct {
	TemplateFile   string `toml:"template_file"`
	OutputFolder   string `toml:"output_folder"`
	CalendarFile   string `toml:"calendar_file"`
	GradeDirectory string `toml:"grade_directory"`
}

type RunConfig struct {
	Mode        string `toml:"mode"`
	AliasesFile string `toml:"aliases_file"`
}

// SettingsConfig selects where remembered run inputs are stored.
type SettingsConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type AIConfig struct {
	Model         string  `toml:"model"`
	MinConfidence float64 `toml:"min_confidence"`
	APIKeyEnv     string  `toml:"api_key_env"`
}

type UIConfig struct {
	LogLines int  `toml:"log_lines"`
	Plain    bool `toml:"plain"`
}

type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

type LogConfig struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
}

// Default returns the configuration written on first start.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			OutputFolder:   "data/output",
			GradeDirectory: "data/grades",
		},
		Run: RunConfig{
			Mode:        "both",
			AliasesFile: "configs/grade_aliases.json",
		},
		Settings: SettingsConfig{
			Backend: "json",
		},
		AI: AIConfig{
			Model:         "gemini-2.0-flash-exp",
			MinConfidence: 0.8,
			APIKeyEnv:     "GEMINI_API_KEY",
		},
		UI: UIConfig{
			LogLines: 15,
		},
		Watch: WatchConfig{
			DebounceMS: 2000,
		},
		Log: LogConfig{
			Dir:   "logs",
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified config file path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		defaultConfig := Default()
		if err := SaveConfig(configPath, defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	config.applyDefaults()

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := Default()

	if c.Run.Mode == "" {
		c.Run.Mode = def.Run.Mode
	}
	if c.Run.AliasesFile == "" {
		c.Run.AliasesFile = def.Run.AliasesFile
	}
	if c.Settings.Backend == "" {
		c.Settings.Backend = def.Settings.Backend
	}
	if c.AI.Model == "" {
		c.AI.Model = def.AI.Model
	}
	if c.AI.MinConfidence == 0 {
		c.AI.MinConfidence = def.AI.MinConfidence
	}
	if c.AI.APIKeyEnv == "" {
		c.AI.APIKeyEnv = def.AI.APIKeyEnv
	}
	if c.UI.LogLines == 0 {
		c.UI.LogLines = def.UI.LogLines
	}
	if c.Watch.DebounceMS == 0 {
		c.Watch.DebounceMS = def.Watch.DebounceMS
	}
	if c.Log.Dir == "" {
		c.Log.Dir = def.Log.Dir
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}
