package chat

import (
	"time"

	"github.com/botize/botize/internal/ai"
	"github.com/botize/botize/internal/prompt"
)

// HistoryWindow is the default backend-facing conversation window: 20
// entries, ten exchanges, oldest evicted first.
const HistoryWindow = 20

// TurnRequest is one chat turn as received from the embedded widget.
// Constructed fresh per turn, never stored.
type TurnRequest struct {
	WidgetID  string
	SessionID string
	Message   string

	Provider                 string
	Model                    string
	SystemPrompt             string
	BusinessContext          string
	RestrictToBusinessTopics bool
	BrandingName             string

	Sources []prompt.Source
	History []ai.Message
}

// TrimHistory applies the sliding window: the most recent window entries
// are kept, order preserved.
func TrimHistory(history []ai.Message, window int) []ai.Message {
	if len(history) <= window {
		return history
	}
	return history[len(history)-window:]
}

// TurnEvent is the diagnostic record for one chat turn. Published to the
// event queue on every turn and persisted by the worker for operator
// inspection.
type TurnEvent struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	WidgetID  string    `gorm:"type:varchar(36);index;not null" json:"widget_id"`
	SessionID string    `gorm:"type:varchar(64);index" json:"session_id"`
	Provider  string    `gorm:"type:varchar(32);not null" json:"provider"`
	Model     string    `gorm:"type:varchar(64)" json:"model"`
	Status    string    `gorm:"type:varchar(16);not null" json:"status"`
	Detail    string    `gorm:"type:text" json:"detail,omitempty"`
	LatencyMS int64     `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}

func (TurnEvent) TableName() string { return "chat_turn_events" }

const (
	TurnOK     = "ok"
	TurnFailed = "failed"
)
