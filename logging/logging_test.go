package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "othello.log")
	closer, err := Setup(path, "info")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	log.Info().Int("size", 8).Msg("game-started")
	log.Debug().Msg("hidden")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"message":"game-started"`) || !strings.Contains(out, `"size":8`) {
		t.Fatalf("log missing entry: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry written at info level: %s", out)
	}
}

func TestSetupRejectsBadLevel(t *testing.T) {
	if _, err := Setup("", "chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSetupEmptyPathDiscards(t *testing.T) {
	closer, err := Setup("", "debug")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	log.Info().Msg("nowhere")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	if err := Console(&buf, "warn"); err != nil {
		t.Fatal(err)
	}
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Warn().Msg("rejected-proposal")
	log.Info().Msg("quiet")
	if !strings.Contains(buf.String(), "rejected-proposal") || strings.Contains(buf.String(), "quiet") {
		t.Fatalf("console output = %q", buf.String())
	}
}
