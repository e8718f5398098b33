package ai

import (
	"context"
	"testing"

	"github.com/botize/botize/internal/apperr"
)

type fakeProvider struct {
	system  string
	history []Message
	message string
	reply   string
	err     error
}

func (p *fakeProvider) Chat(ctx context.Context, system string, history []Message, message string) (string, error) {
	p.system = system
	p.history = append([]Message(nil), history...)
	p.message = message
	return p.reply, p.err
}

func TestDispatch_RoutesToRegisteredProvider(t *testing.T) {
	prov := &fakeProvider{reply: "hello"}
	reg := NewRegistry()
	reg.Register("fake", func(ctx context.Context, model string) (Provider, error) {
		return prov, nil
	})

	reply, err := reg.Dispatch(context.Background(), "fake", "m", "sys",
		[]Message{{Role: "user", Content: "earlier"}}, "now")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if reply != "hello" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if prov.system != "sys" || prov.message != "now" || len(prov.history) != 1 {
		t.Fatalf("provider received wrong turn: system=%q message=%q history=%d",
			prov.system, prov.message, len(prov.history))
	}
}

func TestDispatch_UnknownProvider(t *testing.T) {
	called := false
	reg := NewRegistry()
	reg.Register("openai", func(ctx context.Context, model string) (Provider, error) {
		called = true
		return &fakeProvider{}, nil
	})

	_, err := reg.Dispatch(context.Background(), "gemini", "m", "", nil, "hi")
	if err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation kind, got %v", apperr.KindOf(err))
	}
	if called {
		t.Fatalf("registered factory must not run for an unknown provider")
	}
}

func TestDispatch_EmptyMessage(t *testing.T) {
	reg := NewRegistry()
	reg.Register("fake", func(ctx context.Context, model string) (Provider, error) {
		t.Fatalf("factory must not run for empty input")
		return nil, nil
	})

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := reg.Dispatch(context.Background(), "fake", "m", "", nil, msg)
		if err == nil {
			t.Fatalf("expected error for message %q", msg)
		}
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("expected validation kind, got %v", apperr.KindOf(err))
		}
	}
}

func TestRegistry_NameNormalization(t *testing.T) {
	reg := NewRegistry()
	reg.Register("OpenAI", func(ctx context.Context, model string) (Provider, error) {
		return &fakeProvider{reply: "ok"}, nil
	})

	reply, err := reg.Dispatch(context.Background(), "  openai ", "m", "", nil, "hi")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if reply != "ok" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}
