package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/botize/botize/internal/apperr"
)

const anthropicVersion = "2023-06-01"

// AnthropicProvider speaks the messages contract: the system prompt is a
// top-level parameter and replies come back as typed content blocks, of
// which only text-typed blocks are usable.
type AnthropicProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

type anthropicMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicChatReq struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	System    string         `json:"system,omitempty"`
	Messages  []anthropicMsg `json:"messages"`
}

type anthropicChatResp struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewAnthropicProvider(baseURL, apiKey, model string) *AnthropicProvider {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if model == "" {
		model = "claude-3-haiku-20240307"
	}
	return &AnthropicProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *AnthropicProvider) Chat(ctx context.Context, system string, history []Message, message string) (string, error) {
	if p.Client == nil {
		return "", errors.New("anthropic: http client is nil")
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return "", apperr.New(apperr.KindProvider, "Anthropic API key not configured on the server")
	}

	msgs := make([]anthropicMsg, 0, len(history)+1)
	for _, m := range history {
		msgs = append(msgs, anthropicMsg{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, anthropicMsg{Role: "user", Content: message})

	reqBody := anthropicChatReq{
		Model:     p.Model,
		MaxTokens: maxOutputTokens,
		System:    system,
		Messages:  msgs,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1/messages", strings.TrimRight(p.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "anthropic request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := backendErrMessage(body)
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", apperr.New(apperr.KindProvider, "anthropic: "+msg)
	}

	var decoded anthropicChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "anthropic: malformed response", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", apperr.New(apperr.KindProvider, "anthropic: "+decoded.Error.Message)
	}
	for _, block := range decoded.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return noResponse, nil
}
