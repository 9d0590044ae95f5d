package engine

import (
	"fmt"
	"sync"
)

// Session keeps the win tally across games played in one program run.
type Session struct {
	mu    sync.Mutex
	black int
	white int
	draws int
}

// NewSession returns an empty tally.
func NewSession() *Session {
	return &Session{}
}

// Record adds a finished game with the given final disc counts.
func (s *Session) Record(black, white int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case black > white:
		s.black++
	case white > black:
		s.white++
	default:
		s.draws++
	}
}

// Reset clears the tally.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.black, s.white, s.draws = 0, 0, 0
}

// Tally returns black wins, white wins and draws.
func (s *Session) Tally() (black, white, draws int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.black, s.white, s.draws
}

// Games returns the number of recorded games.
func (s *Session) Games() int {
	b, w, d := s.Tally()
	return b + w + d
}

func (s *Session) String() string {
	b, w, d := s.Tally()
	return fmt.Sprintf("Black %d  White %d  Draws %d", b, w, d)
}
