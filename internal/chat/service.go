package chat

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/botize/botize/internal/ai"
	"github.com/botize/botize/internal/apperr"
	"github.com/botize/botize/internal/prompt"
)

// EventPublisher receives turn diagnostics. Implementations must tolerate
// being nil-checked out; publishing is always best effort.
type EventPublisher interface {
	PublishTurnEvent(ctx context.Context, ev TurnEvent) error
}

// Service runs one chat turn end to end: trim history, assemble the
// system prompt, dispatch to the selected provider, normalize. Stateless
// per request; safe for concurrent use.
type Service struct {
	registry *ai.Registry
	events   EventPublisher
	log      *zap.SugaredLogger
	window   int
}

func NewService(registry *ai.Registry, events EventPublisher, log *zap.SugaredLogger, contextWindowSize int) *Service {
	if contextWindowSize <= 0 || contextWindowSize > 100 {
		contextWindowSize = HistoryWindow
	}
	return &Service{registry: registry, events: events, log: log, window: contextWindowSize}
}

// Respond produces the assistant reply for req, or an error whose kind
// decides the HTTP status. The caller surfaces only sanitized messages;
// full detail lands in the log and the event stream.
func (s *Service) Respond(ctx context.Context, req TurnRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", apperr.New(apperr.KindValidation, "message is required")
	}

	history := TrimHistory(req.History, s.window)

	system := prompt.Build(prompt.Config{
		SystemPrompt:             req.SystemPrompt,
		BusinessContext:          req.BusinessContext,
		RestrictToBusinessTopics: req.RestrictToBusinessTopics,
		BrandingName:             req.BrandingName,
	}, req.Sources)

	start := time.Now()
	reply, err := s.registry.Dispatch(ctx, req.Provider, req.Model, system, history, req.Message)
	latency := time.Since(start)

	ev := TurnEvent{
		WidgetID:  req.WidgetID,
		SessionID: req.SessionID,
		Provider:  req.Provider,
		Model:     req.Model,
		Status:    TurnOK,
		LatencyMS: latency.Milliseconds(),
	}
	if err != nil {
		ev.Status = TurnFailed
		ev.Detail = err.Error()
		s.log.Errorw("chat turn failed",
			"widget_id", req.WidgetID,
			"session_id", req.SessionID,
			"provider", req.Provider,
			"error", err,
		)
	}
	s.publish(ctx, ev)

	if err != nil {
		return "", err
	}
	return reply, nil
}

func (s *Service) publish(ctx context.Context, ev TurnEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTurnEvent(ctx, ev); err != nil {
		s.log.Warnw("failed to publish turn event", "widget_id", ev.WidgetID, "error", err)
	}
}
