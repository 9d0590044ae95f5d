package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"othello-local/othello"
)

// ErrUnavailable is returned when the model server cannot be reached or
// answers with an error status.
var ErrUnavailable = errors.New("language model unavailable")

// Client talks to an Ollama server.
type Client struct {
	baseURL    string
	model      string
	numPredict int
	timeout    time.Duration
	http       *http.Client
}

// NewClient returns a client for the server at baseURL (for example
// http://localhost:11434). timeout bounds each request.
func NewClient(baseURL, model string, numPredict int, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		numPredict: numPredict,
		timeout:    timeout,
		http:       &http.Client{},
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Check reports whether the server is up.
func (c *Client) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WithMessage(ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.WithMessagef(ErrUnavailable, "tags status %d", resp.StatusCode)
	}
	return nil
}

// Generate sends prompt and returns the complete, non-streamed answer.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	body, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{Temperature: 0.7, NumPredict: c.numPredict},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("model", c.model).Msg("ollama-request-failed")
		return "", errors.WithMessage(ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode == http.StatusOK {
		return "", errors.Wrap(err, "decoding ollama response")
	}
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("error", out.Error).Msg("ollama-request-failed")
		return "", errors.WithMessagef(ErrUnavailable, "status %d %s", resp.StatusCode, out.Error)
	}
	log.Debug().Dur("took", time.Since(start)).Int("chars", len(out.Response)).Msg("ollama-response")
	if out.Response == "" {
		return "No response from model", nil
	}
	return out.Response, nil
}

// AnalyzePosition asks for an assessment of the position and the best move
// for player.
func (c *Client) AnalyzePosition(ctx context.Context, b *othello.Board, player othello.Cell) (string, error) {
	prompt := fmt.Sprintf(`You are an expert Othello/Reversi strategist. Analyze this board position and give advice.

%s
Player to move: %s
Valid moves: %s

Please provide:
1. A brief assessment of the position (who is ahead and why)
2. The best move to play and why
3. Specific tips to improve %s's play

Keep it concise and practical. Do not use chess terminology.`,
		BoardString(b), player, movesList(othello.ValidMoves(b, player)), player)
	return c.Generate(ctx, prompt)
}

// SummarizeGame asks for a review of a finished game. transcript may be empty.
func (c *Client) SummarizeGame(ctx context.Context, b *othello.Board, transcript string) (string, error) {
	black, white := othello.CountDiscs(b)
	var result string
	switch {
	case black > white:
		result = fmt.Sprintf("Black wins by %d (Black %d, White %d)", black-white, black, white)
	case white > black:
		result = fmt.Sprintf("White wins by %d (Black %d, White %d)", white-black, black, white)
	default:
		result = fmt.Sprintf("Draw (Black %d, White %d)", black, white)
	}

	var moves string
	if transcript != "" {
		moves = "\nGame record (SGF, GM[2] is Othello):\n" + transcript + "\n"
	}
	prompt := fmt.Sprintf(`You are an expert Othello/Reversi strategist. Analyze this completed game.

%s%s
Final result: %s

Please provide:
1. What the winner did well
2. What the loser could have done better
3. Three specific strategy tips for improving at Othello
4. Common beginner mistakes to avoid

Keep it constructive and educational.`, BoardString(b), moves, result)
	return c.Generate(ctx, prompt)
}

// ExplainUndo reviews a move the player took back. It never fails: when the
// model cannot answer the heuristic review is returned instead.
func (c *Client) ExplainUndo(ctx context.Context, before, after *othello.Board, player othello.Cell, pos othello.Pos) string {
	if c == nil {
		return ReviewMove(before, after, player, pos)
	}
	b0, w0 := othello.CountDiscs(before)
	b1, w1 := othello.CountDiscs(after)
	prompt := fmt.Sprintf(`You are an Othello expert. Analyze this move that was just undone.

BEFORE the move:
%s
AFTER %s played %s:
%s
Score change: Black %d -> %d, White %d -> %d

Explain:
1. Was this a good or bad move? Why?
2. What strategic mistakes were made (if any)?
3. What would have been a better alternative?
4. The key lesson from this move

Be honest and educational. Use Othello terms (corners, edges, mobility, discs).`,
		BoardString(before), player, pos, BoardString(after), b0, b1, w0, w1)

	answer, err := c.Generate(ctx, prompt)
	if err != nil {
		log.Info().Err(err).Msg("undo-review-fallback")
		return ReviewMove(before, after, player, pos)
	}
	return answer
}
