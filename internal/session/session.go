// Package session implements the widget-side conversation state machine:
// visitor identity, bounded history, open/close/loading state, FAQ
// quick-replies and the auto-open timer.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/botize/botize/internal/ai"
	"github.com/botize/botize/internal/chat"
	"github.com/botize/botize/internal/common"
	"github.com/botize/botize/internal/prompt"
)

type State int

const (
	StateClosed State = iota
	StateOpenIdle
	StateOpenLoading
)

func (s State) String() string {
	switch s {
	case StateOpenIdle:
		return "open_idle"
	case StateOpenLoading:
		return "open_loading"
	default:
		return "closed"
	}
}

// failureMessage is the only text a visitor ever sees for a failed turn.
const failureMessage = "Sorry, I encountered an error. Please try again later."

const sessionIDKey = "chat_session_id"

// Message is a display entry. The display transcript keeps timestamps and
// is never capped; only the backend-facing history window is bounded.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Caller crosses the network boundary for one chat turn.
type Caller interface {
	Send(ctx context.Context, sessionID, message string, history []ai.Message) (string, error)
}

// Notifier plays the reply notification tone. Optional.
type Notifier interface {
	Notify()
}

// Config is the visitor-facing widget configuration driving the session.
type Config struct {
	WidgetID string

	Prompt  prompt.Config
	Sources []prompt.Source

	Provider string
	Model    string

	IsOpenByDefault    bool
	AutoOpenDelay      time.Duration
	SoundEnabled       bool
	ShowInitialMessage bool
	InitialMessage     string

	FAQ []FAQ
}

type FAQ struct {
	Question string
	Answer   string
}

// Session is one widget instance's conversation state. All state is
// confined to the instance; multiple widgets on one page get independent
// sessions (sharing a Store shares only the visitor id).
type Session struct {
	mu sync.Mutex

	cfg      Config
	caller   Caller
	notifier Notifier

	id         string
	state      State
	transcript []Message
	history    []ai.Message

	autoOpen  *time.Timer
	now       func() time.Time
	turnsDone sync.WaitGroup
}

// New builds the session: the visitor id is read from store or created
// once and persisted, the initial state follows IsOpenByDefault, and the
// auto-open timer is armed exactly once when configured.
func New(cfg Config, store Store, caller Caller, notifier Notifier) *Session {
	s := &Session{
		cfg:      cfg,
		caller:   caller,
		notifier: notifier,
		id:       loadOrCreateID(store),
		state:    StateClosed,
		now:      time.Now,
	}
	if cfg.IsOpenByDefault {
		s.state = StateOpenIdle
	}

	if cfg.ShowInitialMessage && cfg.InitialMessage != "" {
		s.transcript = append(s.transcript, Message{
			Role:      "assistant",
			Content:   cfg.InitialMessage,
			Timestamp: s.now(),
		})
	}

	// Single-shot: armed here, fired at most once, opens only if the
	// widget is still closed at fire time.
	if cfg.AutoOpenDelay > 0 && !cfg.IsOpenByDefault {
		s.autoOpen = time.AfterFunc(cfg.AutoOpenDelay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.state == StateClosed {
				s.state = StateOpenIdle
			}
		})
	}

	return s
}

func loadOrCreateID(store Store) string {
	if store != nil {
		if id, ok := store.Get(sessionIDKey); ok && id != "" {
			return id
		}
	}
	ulid, err := common.NewULID()
	if err != nil {
		// crypto/rand failing is not recoverable here; fall back to a
		// time-derived id rather than breaking the widget.
		ulid = time.Now().UTC().Format("20060102150405.000000000")
	}
	id := "sess_" + ulid
	if store != nil {
		_ = store.Set(sessionIDKey, id)
	}
	return id
}

func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the display message list.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.transcript...)
}

// History returns a copy of the capped backend-facing window.
func (s *Session) History() []ai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ai.Message(nil), s.history...)
}

func (s *Session) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		s.state = StateOpenIdle
	}
}

// Close hides the widget. An in-flight turn is not cancelled: it settles
// against the still-live session state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateOpenIdle {
		s.state = StateClosed
	}
}

func (s *Session) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateClosed:
		s.state = StateOpenIdle
	case StateOpenIdle:
		s.state = StateClosed
	}
}

// Submit sends one user message through the pipeline. Empty input, a
// closed widget, or an in-flight turn make it a no-op (reported via the
// bool). The turn runs on its own goroutine; the session is loading until
// it settles, success or failure.
func (s *Session) Submit(ctx context.Context, text string) bool {
	s.mu.Lock()
	if s.state != StateOpenIdle || strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return false
	}
	content := strings.TrimSpace(text)
	s.appendBothLocked("user", content)
	s.state = StateOpenLoading
	s.mu.Unlock()

	s.turnsDone.Add(1)
	go s.runTurn(ctx, content)
	return true
}

// SubmitFAQ handles a quick-reply. A pre-authored answer resolves
// synchronously without touching the network; an FAQ without one behaves
// like a typed question.
func (s *Session) SubmitFAQ(ctx context.Context, index int) bool {
	s.mu.Lock()
	if s.state != StateOpenIdle || index < 0 || index >= len(s.cfg.FAQ) {
		s.mu.Unlock()
		return false
	}
	faq := s.cfg.FAQ[index]

	if faq.Answer != "" {
		s.transcript = append(s.transcript,
			Message{Role: "user", Content: faq.Question, Timestamp: s.now()},
			Message{Role: "assistant", Content: faq.Answer, Timestamp: s.now()},
		)
		s.mu.Unlock()
		return true
	}

	s.appendBothLocked("user", faq.Question)
	s.state = StateOpenLoading
	s.mu.Unlock()

	s.turnsDone.Add(1)
	go s.runTurn(ctx, faq.Question)
	return true
}

// Wait blocks until every started turn has settled. Test helper.
func (s *Session) Wait() {
	s.turnsDone.Wait()
}

func (s *Session) runTurn(ctx context.Context, content string) {
	defer s.turnsDone.Done()

	// History snapshot excludes the just-appended user message; the
	// backend receives it as the new message, not as history.
	s.mu.Lock()
	history := append([]ai.Message(nil), s.history[:len(s.history)-1]...)
	id := s.id
	s.mu.Unlock()

	reply, err := s.caller.Send(ctx, id, content, history)

	s.mu.Lock()
	if err != nil {
		s.appendBothLocked("assistant", failureMessage)
	} else {
		s.appendBothLocked("assistant", reply)
	}
	// Unconditional: the session never stays stuck loading.
	s.state = StateOpenIdle
	notify := err == nil && s.cfg.SoundEnabled && s.notifier != nil
	s.mu.Unlock()

	if notify {
		s.notifier.Notify()
	}
}

// appendBothLocked adds an entry to the display transcript and the capped
// history window, evicting the oldest entries past the window bound.
func (s *Session) appendBothLocked(role, content string) {
	s.transcript = append(s.transcript, Message{Role: role, Content: content, Timestamp: s.now()})
	s.history = append(s.history, ai.Message{Role: role, Content: content})
	if len(s.history) > chat.HistoryWindow {
		s.history = append([]ai.Message(nil), s.history[len(s.history)-chat.HistoryWindow:]...)
	}
}

