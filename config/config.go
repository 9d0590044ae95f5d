package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	cfgFile = "othello-local/config.json"
	logFile = "othello-local/othello.log"
)

// Environment variables that override the config file.
const (
	EnvOllamaURL   = "OTHELLO_OLLAMA_URL"
	EnvOllamaModel = "OTHELLO_OLLAMA_MODEL"
	EnvModelPath   = "OTHELLO_MODEL_PATH"
	EnvLogLevel    = "OTHELLO_LOG_LEVEL"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor        int `json:"board"`
	BoardColorAlt     int `json:"board_alt"`
	BlackColor        int `json:"black"`
	WhiteColor        int `json:"white"`
	LineColor         int `json:"line"`
	CursorColorFG     int `json:"cursor_fg"`
	CursorColorBG     int `json:"cursor_bg"`
	LastPlayedColorBG int `json:"last_played_bg"`
	ValidMoveColor    int `json:"valid_move"`
	FlippedColorBG    int `json:"flipped_bg"`
}

type ConfigSymbols struct {
	BlackDisc   rune `json:"black"`
	WhiteDisc   rune `json:"white"`
	BoardSquare rune `json:"board"`
	Cursor      rune `json:"cursor"`
	ValidMove   rune `json:"valid_move"`
}

type Theme struct {
	DrawCursorBackground     bool          `json:"draw_cursor_bg"`
	DrawLastPlayedBackground bool          `json:"draw_last_played_bg"`
	DrawFlippedBackground    bool          `json:"draw_flipped_bg"`
	ShowValidMoves           bool          `json:"show_valid_moves"`
	FullWidthLetters         bool          `json:"fullwidth_letters"`
	Colors                   ConfigColors  `json:"colors"`
	Symbols                  ConfigSymbols `json:"symbols"`
}

// GameSettings holds the defaults offered by the new game form.
type GameSettings struct {
	DefaultBoardSize int    `json:"default_board_size"`
	DefaultMode      string `json:"default_mode"`
	DefaultColor     string `json:"default_color"`
	ModelPath        string `json:"model_path"`
	EngineDelayMS    int    `json:"engine_delay_ms"`
	Heatmap          bool   `json:"heatmap"`
}

// OllamaConfig points at a locally hosted language model used for analysis.
type OllamaConfig struct {
	Enabled        bool   `json:"enabled"`
	URL            string `json:"url"`
	Model          string `json:"model"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	NumPredict     int    `json:"num_predict"`
}

// LogConfig selects the log file and level.
type LogConfig struct {
	File  string `json:"file"`
	Level string `json:"level"`
}

type Config struct {
	Theme  Theme        `json:"theme"`
	Game   GameSettings `json:"game"`
	Ollama OllamaConfig `json:"ollama"`
	Log    LogConfig    `json:"log"`

	path string // file Save writes to; the xdg config file when empty
}

// InitConfig loads defaults, the xdg config file and .env/environment
// overrides, in that order.
func InitConfig() (*Config, error) {
	_ = godotenv.Load()

	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if config.Log.File == "" {
		if p, err := xdg.StateFile(logFile); err == nil {
			config.Log.File = p
		}
	}
	config.ApplyEnv(os.Getenv)
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Load reads a config file over the defaults without consulting xdg or the
// environment. Save writes back to the same file.
func Load(path string) (*Config, error) {
	config := DefaultConfig
	if err := readCfgFile(path, &config); err != nil {
		return nil, err
	}
	config.path = path
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ApplyEnv overrides settings from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvOllamaURL); v != "" {
		c.Ollama.URL = v
		c.Ollama.Enabled = true
	}
	if v := getenv(EnvOllamaModel); v != "" {
		c.Ollama.Model = v
	}
	if v := getenv(EnvModelPath); v != "" {
		c.Game.ModelPath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.BlackDisc, c.Theme.Symbols.WhiteDisc, c.Theme.Symbols.BoardSquare, c.Theme.Symbols.ValidMove} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if n := c.Game.DefaultBoardSize; n < 4 || n > 26 || n%2 != 0 {
		return &InvalidConfig{"default_board_size must be even and between 4 and 26, got " + strconv.Itoa(n)}
	}
	switch c.Game.DefaultMode {
	case "human", "random", "trained":
	default:
		return &InvalidConfig{fmt.Sprintf("default_mode %q must be human, random or trained", c.Game.DefaultMode)}
	}
	switch c.Game.DefaultColor {
	case "black", "white":
	default:
		return &InvalidConfig{fmt.Sprintf("default_color %q must be black or white", c.Game.DefaultColor)}
	}
	if c.Game.EngineDelayMS < 0 {
		return &InvalidConfig{"engine_delay_ms must not be negative"}
	}
	if c.Ollama.TimeoutSeconds <= 0 {
		return &InvalidConfig{"ollama timeout_seconds must be positive"}
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return &InvalidConfig{fmt.Sprintf("log level %q: %v", c.Log.Level, err)}
	}
	return nil
}

// Save writes the config back to the file it was loaded from, or to the xdg
// config path.
func (c *Config) Save() error {
	if c.path != "" {
		return c.SaveTo(c.path)
	}
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return errors.Wrap(err, "locating config file")
	}
	return c.SaveTo(absPath)
}

// SaveTo writes the config to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating config dir")
	}
	return saveCfgFile(path, c, 0664)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return errors.Wrap(os.WriteFile(filePath, jsonData, perm), "writing config")
}

func readCfgFile(filePath string, a interface{}) error {
	configReader, err := os.ReadFile(filePath)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}
	if err := json.Unmarshal(configReader, a); err != nil {
		return errors.Wrapf(err, "parsing %s", filePath)
	}
	return nil
}
