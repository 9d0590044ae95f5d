package config

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:     true,
		DrawLastPlayedBackground: true,
		DrawFlippedBackground:    true,
		ShowValidMoves:           true,
		FullWidthLetters:         false,
		Colors: ConfigColors{
			BoardColor:        28,
			BoardColorAlt:     22,
			BlackColor:        232,
			WhiteColor:        255,
			LineColor:         22,
			CursorColorFG:     226,
			CursorColorBG:     4,
			LastPlayedColorBG: 94,
			ValidMoveColor:    120,
			FlippedColorBG:    58,
		},
		Symbols: ConfigSymbols{
			BlackDisc:   '●',
			WhiteDisc:   '●',
			BoardSquare: '·',
			Cursor:      '+',
			ValidMove:   '∙',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Game: GameSettings{
			DefaultBoardSize: 8,
			DefaultMode:      "random",
			DefaultColor:     "black",
			EngineDelayMS:    300,
		},
		Ollama: OllamaConfig{
			URL:            "http://localhost:11434",
			Model:          "llama3.2",
			TimeoutSeconds: 60,
			NumPredict:     400,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
