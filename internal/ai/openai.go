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

// OpenAIProvider speaks the chat-completions contract: the system prompt
// rides as the first message of the message array.
type OpenAIProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

type openAIMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatReq struct {
	Model       string      `json:"model"`
	Messages    []openAIMsg `json:"messages"`
	MaxTokens   int         `json:"max_tokens"`
	Temperature float64     `json:"temperature"`
}

type openAIChatResp struct {
	Choices []struct {
		Message openAIMsg `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *OpenAIProvider) Chat(ctx context.Context, system string, history []Message, message string) (string, error) {
	if p.Client == nil {
		return "", errors.New("openai: http client is nil")
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return "", apperr.New(apperr.KindProvider, "OpenAI API key not configured on the server")
	}

	msgs := make([]openAIMsg, 0, len(history)+2)
	msgs = append(msgs, openAIMsg{Role: "system", Content: system})
	for _, m := range history {
		msgs = append(msgs, openAIMsg{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, openAIMsg{Role: "user", Content: message})

	reqBody := openAIChatReq{
		Model:       p.Model,
		Messages:    msgs,
		MaxTokens:   maxOutputTokens,
		Temperature: 0.7,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(p.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "openai request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := backendErrMessage(body)
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", apperr.New(apperr.KindProvider, "openai: "+msg)
	}

	var decoded openAIChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", apperr.Wrap(apperr.KindProvider, "openai: malformed response", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", apperr.New(apperr.KindProvider, "openai: "+decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return noResponse, nil
	}
	return decoded.Choices[0].Message.Content, nil
}

// backendErrMessage pulls the error message out of a JSON error body so
// the operator sees the backend's own wording when it is available.
func backendErrMessage(body []byte) string {
	var decoded struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != nil && decoded.Error.Message != "" {
		return decoded.Error.Message
	}
	return strings.TrimSpace(string(body))
}
