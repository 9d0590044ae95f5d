// othello-local is a terminal application to play Othello offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"othello-local/analysis"
	"othello-local/config"
	"othello-local/engine"
	"othello-local/engine/local"
	"othello-local/logging"
	"othello-local/textplay"
	"othello-local/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagBoardSize = flag.Int("size", 0, "Board size (even, 4 to 26)")
	flagMode      = flag.String("mode", "", "Opponent: random, trained or human")
	flagColor     = flag.String("color", "", "Player color (black or white)")
	flagModel     = flag.String("model", "", "Policy file for the trained opponent")
	flagLoad      = flag.String("load", "", "SGF file to start from")
	flagHeatmap   = flag.Bool("heatmap", false, "Show move scores on the board")
	flagText      = flag.Bool("text", false, "Play on plain stdin/stdout")
	flagQuick     = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus     = flag.Bool("focus", false, "Start in focus mode (board only)")
	flagConfig    = flag.String("config", "", "Config file to use instead of the default location")
	flagVerbose   = flag.Bool("verbose", false, "Log to stderr in text mode")
	flagVersion   = flag.Bool("version", false, "Print version and exit")
)

var (
	app          *tview.Application
	rootPage     *tview.Pages
	gameBoard    *ui.BoardUI
	gameFrame    *tview.Flex
	gameHint     *tview.TextView
	analysisView *ui.AnalysisView
	replay       *ui.ReplayBrowserUI
	setupUI      *ui.GameSetupUI
	cfg          *config.Config
	session      *engine.Session
	ollama       *analysis.Client
	current      *local.Engine
	lastGame     engine.GameConfig
	analysisBusy bool
	ctx          context.Context
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("othello-local %s\n", Version)
		return
	}

	var err error
	if *flagConfig != "" {
		cfg, err = config.Load(*flagConfig)
	} else {
		cfg, err = config.InitConfig()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logCloser, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logCloser.Close()
	log.Info().Str("version", Version).Str("log", cfg.Log.File).Msg("starting")

	var stop context.CancelFunc
	ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *flagHeatmap {
		cfg.Game.Heatmap = true
	}
	session = engine.NewSession()
	if cfg.Ollama.Enabled {
		ollama = analysis.NewClient(cfg.Ollama.URL, cfg.Ollama.Model, cfg.Ollama.NumPredict,
			time.Duration(cfg.Ollama.TimeoutSeconds)*time.Second)
	}

	gameCfg, err := buildGameConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *flagText {
		if *flagVerbose {
			// No full-screen UI to protect in text mode
			if err := logging.Console(os.Stderr, cfg.Log.Level); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		if err := runText(gameCfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	quickStart := *flagQuick || *flagBoardSize > 0 || *flagMode != "" || *flagColor != "" ||
		*flagModel != "" || *flagLoad != "" || *flagFocus

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ◉ othello ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewBoard(app, cfg, gameHint)
	gameBoard.SetSession(session)
	gameBoard.OnGameEnd(gameEnded)
	analysisView = ui.NewAnalysisView()
	gameFrame = ui.CreateGameLayout(gameBoard, gameHint, analysisView)
	gameBoard.Box.SetInputCapture(boardInput)

	// Game setup screen
	setupUI = ui.NewGameSetup(gameCfg, startGame, app.Stop, func() {
		rootPage.SwitchToPage("colors")
	})

	// Color configuration screen
	colorConfig := ui.NewColorConfig(cfg, func() {
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	replay = ui.NewReplayBrowser(func() {
		rootPage.SwitchToPage("gameview")
	})

	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI, 64), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)
	rootPage.AddPage("replay", replay.Flex(), true, false)

	if quickStart {
		startGame(gameCfg)
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		log.Err(err).Msg("ui-failed")
		fmt.Fprintln(os.Stderr, err)
	}
	gameBoard.Close()
}

// boardInput handles keys on the game view.
func boardInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		gameBoard.MoveSelection(0, -1)
	case tcell.KeyDown:
		gameBoard.MoveSelection(0, 1)
	case tcell.KeyLeft:
		gameBoard.MoveSelection(-1, 0)
	case tcell.KeyRight:
		gameBoard.MoveSelection(1, 0)
	case tcell.KeyEnter:
		if sel := gameBoard.SelectedTile(); sel != nil {
			gameBoard.PlayMove(sel.X, sel.Y)
		}
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			gameBoard.MoveSelection(-1, 0)
		case 'j':
			gameBoard.MoveSelection(0, 1)
		case 'k':
			gameBoard.MoveSelection(0, -1)
		case 'l':
			gameBoard.MoveSelection(1, 0)
		case 'u':
			undo()
		case 'r':
			gameBoard.Redo()
		case 'm':
			gameBoard.ToggleHeatmap()
		case 'a':
			analyse()
		case 'n':
			if current != nil {
				startGame(lastGame)
			}
		case 'W':
			session.Reset()
			analysisView.Show("Session", "Win tally reset.\n\n"+session.String())
			gameBoard.Redraw()
		case 'v':
			showReplay()
		case 'f':
			if gameBoard.ToggleFocusMode() {
				ui.BuildFocusLayout(gameFrame, gameBoard)
			} else {
				ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint, analysisView)
			}
		case 'q':
			if gameBoard.SelectedTile() != nil {
				gameBoard.ResetSelection()
			} else {
				gameBoard.Close()
				rootPage.SwitchToPage("setup")
			}
			return nil
		}
	}
	return event
}

// startGame starts a game with the given configuration.
func startGame(gameCfg engine.GameConfig) {
	opponent, err := local.NewOpponent(gameCfg)
	if err != nil {
		showError(err)
		return
	}
	eng := local.NewEngine(gameCfg, opponent)
	if err := gameBoard.ConnectEngine(eng); err != nil {
		showError(err)
		return
	}
	current = eng
	lastGame = gameCfg
	// The loaded file only seeds the first game
	lastGame.LoadSGFPath = ""

	gameBoard.SetMode(modeName(gameCfg))
	analysisView.Show("Analysis", "a · analyse the position\nu · undo with review\nv · replay the game")
	rootPage.SwitchToPage("gameview")
}

func modeName(gameCfg engine.GameConfig) string {
	if gameCfg.Mode == engine.ModeHuman {
		return "two players"
	}
	mode := string(gameCfg.Mode)
	if mode == "" {
		mode = string(engine.ModeRandom)
	}
	side := "Black"
	if gameCfg.PlayerColor < 0 {
		side = "White"
	}
	return fmt.Sprintf("%s vs %s", side, mode)
}

func showError(err error) {
	log.Err(err).Msg("start-failed")
	setupUI.SetError(err.Error())
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("error")
			rootPage.SwitchToPage("setup")
		})
	rootPage.AddPage("error", modal, true, true)
}

// undo takes back the last move and reviews it, first with the heuristics
// and then, when configured, with the language model.
func undo() {
	info, err := gameBoard.Undo()
	if err != nil {
		return
	}
	analysisView.Show("Undo review", analysis.ReviewMove(info.Before, info.After, info.Player, info.Pos))
	if ollama == nil || analysisBusy {
		return
	}
	analysisBusy = true
	go func() {
		text := ollama.ExplainUndo(ctx, info.Before, info.After, info.Player, info.Pos)
		app.QueueUpdateDraw(func() {
			analysisBusy = false
			analysisView.Show("Undo review · "+cfg.Ollama.Model, text)
		})
	}()
}

// analyse shows the heatmap's best moves and asks the language model about
// the position.
func analyse() {
	if current == nil {
		return
	}
	board, turn, err := gameBoard.CurrentBoard()
	if err != nil {
		return
	}
	if gameBoard.IsFinished() {
		summarize()
		return
	}

	var sb strings.Builder
	scores := analysis.ScoreMoves(board, turn)
	if best, ok := analysis.Best(scores); ok {
		fmt.Fprintf(&sb, "Heatmap favours %s for %s (%.1f/10).\n", best.Pos, turn, best.Score)
		fmt.Fprintf(&sb, "It flips %d and leaves %d replies.\n", best.Flipped, best.OpponentMoves)
	} else {
		fmt.Fprintf(&sb, "%s has no legal move.\n", turn)
	}
	if ollama == nil {
		sb.WriteString("\nSet ollama.enabled in the config for a language model opinion.")
		analysisView.Show("Analysis", sb.String())
		return
	}
	if analysisBusy {
		return
	}
	sb.WriteString("\nAsking " + cfg.Ollama.Model + "...")
	analysisView.Show("Analysis", sb.String())

	analysisBusy = true
	heuristic := sb.String()
	go func() {
		text, err := ollama.AnalyzePosition(ctx, board, turn)
		app.QueueUpdateDraw(func() {
			analysisBusy = false
			if err != nil {
				analysisView.Show("Analysis", heuristic+"\n"+err.Error())
				return
			}
			analysisView.Show("Analysis · "+cfg.Ollama.Model, text)
		})
	}()
}

// gameEnded runs on the UI goroutine after a game is over.
func gameEnded(outcome string) {
	analysisView.Show("Game over", fmt.Sprintf("%s\n\nSession: %s\n\nn · new game  a · summary  v · replay", outcome, session))
}

func summarize() {
	if ollama == nil || analysisBusy || current == nil {
		return
	}
	board, _, err := gameBoard.CurrentBoard()
	if err != nil {
		return
	}
	transcript := current.Transcript()
	analysisBusy = true
	analysisView.Show("Game summary", "Asking "+cfg.Ollama.Model+"...")
	go func() {
		text, err := ollama.SummarizeGame(ctx, board, transcript)
		app.QueueUpdateDraw(func() {
			analysisBusy = false
			if err != nil {
				text = err.Error()
			}
			analysisView.Show("Game summary", text)
		})
	}()
}

func showReplay() {
	if current == nil {
		return
	}
	if err := replay.Load(current.Transcript()); err != nil {
		analysisView.Show("Replay", err.Error())
		return
	}
	rootPage.SwitchToPage("replay")
}

// buildGameConfigFromFlags creates a GameConfig from the config file
// defaults and command-line flags.
func buildGameConfigFromFlags() (engine.GameConfig, error) {
	gameCfg := engine.DefaultConfig()
	gameCfg.BoardSize = cfg.Game.DefaultBoardSize
	gameCfg.ModelPath = cfg.Game.ModelPath
	gameCfg.EngineDelay = cfg.Game.EngineDelayMS

	mode, color := cfg.Game.DefaultMode, cfg.Game.DefaultColor
	if *flagMode != "" {
		mode = *flagMode
	}
	if *flagColor != "" {
		color = *flagColor
	}
	var err error
	if gameCfg.Mode, err = engine.ParseMode(mode); err != nil {
		return gameCfg, err
	}
	if gameCfg.PlayerColor, err = engine.ParseColor(color); err != nil {
		return gameCfg, err
	}

	if *flagBoardSize > 0 {
		gameCfg.BoardSize = *flagBoardSize
	}
	if *flagModel != "" {
		gameCfg.ModelPath = *flagModel
	}
	gameCfg.LoadSGFPath = *flagLoad
	return gameCfg, nil
}

// runText plays one game on stdin and stdout.
func runText(gameCfg engine.GameConfig) error {
	opponent, err := local.NewOpponent(gameCfg)
	if err != nil {
		return err
	}
	return textplay.Run(ctx, gameCfg, opponent, os.Stdin, os.Stdout, textplay.Options{
		Heatmap: cfg.Game.Heatmap,
		Ollama:  ollama,
		Session: session,
	})
}
