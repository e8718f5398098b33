package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/botize/botize/internal/ai"
)

// HTTPCaller posts chat turns to the backend's /chat endpoint, carrying
// the widget configuration verbatim on every turn.
type HTTPCaller struct {
	BaseURL string
	Config  Config
	Client  *http.Client
}

func NewHTTPCaller(baseURL string, cfg Config) *HTTPCaller {
	return &HTTPCaller{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Config:  cfg,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type wireSource struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type wireConfig struct {
	Provider                 string       `json:"provider"`
	Model                    string       `json:"model"`
	SystemPrompt             string       `json:"systemPrompt"`
	BusinessContext          string       `json:"businessContext"`
	RestrictToBusinessTopics bool         `json:"restrictToBusinessTopics"`
	ContextSources           []wireSource `json:"contextSources"`
	BrandingName             string       `json:"brandingName"`
}

type chatPayload struct {
	WidgetID            string       `json:"widgetId"`
	Message             string       `json:"message"`
	SessionID           string       `json:"sessionId"`
	Config              wireConfig   `json:"config"`
	ConversationHistory []ai.Message `json:"conversationHistory"`
}

type chatReply struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (c *HTTPCaller) Send(ctx context.Context, sessionID, message string, history []ai.Message) (string, error) {
	sources := make([]wireSource, 0, len(c.Config.Sources))
	for _, s := range c.Config.Sources {
		sources = append(sources, wireSource{Type: s.Type, Name: s.Name, Content: s.Content})
	}

	payload := chatPayload{
		WidgetID:  c.Config.WidgetID,
		Message:   message,
		SessionID: sessionID,
		Config: wireConfig{
			Provider:                 c.Config.Provider,
			Model:                    c.Config.Model,
			SystemPrompt:             c.Config.Prompt.SystemPrompt,
			BusinessContext:          c.Config.Prompt.BusinessContext,
			RestrictToBusinessTopics: c.Config.Prompt.RestrictToBusinessTopics,
			ContextSources:           sources,
			BrandingName:             c.Config.Prompt.BrandingName,
		},
		ConversationHistory: history,
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded chatReply
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		if decoded.Error != "" {
			return "", errors.New(decoded.Error)
		}
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if decoded.Response == "" {
		return "No response received", nil
	}
	return decoded.Response, nil
}
