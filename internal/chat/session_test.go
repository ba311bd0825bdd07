package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/config"
	"go.uber.org/zap"
)

type fakeBackend struct {
	mu          sync.Mutex
	calls       int
	customCalls int
	lastMsg     string
	lastSet     api.ChatSettings
	reply       string
	err         error
	block       chan struct{} // when set, SendChatMessage waits on it
}

func (f *fakeBackend) SendChatMessage(_ context.Context, message string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastMsg = message
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeBackend) SendCustomChatMessage(_ context.Context, message string, settings api.ChatSettings) (string, error) {
	f.mu.Lock()
	f.customCalls++
	f.lastMsg = message
	f.lastSet = settings
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newSession(b *fakeBackend, cfg config.Chat) *Session {
	s := NewSession(b, cfg, nil, nil, zap.NewNop())
	s.replyDelay = 0
	return s
}

func TestSeededWelcomeMessage(t *testing.T) {
	s := newSession(&fakeBackend{}, config.Chat{})

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Sender != SenderBot {
		t.Errorf("welcome sender = %s, want bot", msgs[0].Sender)
	}
}

func TestSendAppendsUserThenBot(t *testing.T) {
	b := &fakeBackend{reply: "Drink fluids and rest."}
	s := newSession(b, config.Chat{})

	if err := s.Send(context.Background(), "  I have a fever  "); err != nil {
		t.Fatal(err)
	}

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3 (welcome, user, bot)", len(msgs))
	}
	if msgs[1].Sender != SenderUser || msgs[1].Text != "I have a fever" {
		t.Errorf("user message = %+v", msgs[1])
	}
	if msgs[2].Sender != SenderBot || msgs[2].Text != "Drink fluids and rest." {
		t.Errorf("bot message = %+v", msgs[2])
	}
	if s.Typing() {
		t.Error("typing should be cleared after the round trip")
	}
}

func TestSendRejectsEmpty(t *testing.T) {
	b := &fakeBackend{}
	s := newSession(b, config.Chat{})

	err := s.Send(context.Background(), "   ")
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if b.calls != 0 {
		t.Errorf("backend calls = %d, want 0", b.calls)
	}
}

func TestInsufficientFundsMapsToSpecificMessage(t *testing.T) {
	b := &fakeBackend{err: &api.DomainError{Code: api.CodeInsufficientFunds}}
	s := newSession(b, config.Chat{})

	if err := s.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}

	if got := s.LastError(); got != MsgInsufficientFunds {
		t.Errorf("error slot = %q, want %q (not the generic fallback)", got, MsgInsufficientFunds)
	}

	// The optimistic user entry stays; no bot or error entry is appended.
	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2 (welcome + optimistic user)", len(msgs))
	}
	if msgs[1].Sender != SenderUser {
		t.Errorf("last message sender = %s, want user", msgs[1].Sender)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"insufficient funds", &api.DomainError{Code: api.CodeInsufficientFunds}, MsgInsufficientFunds},
		{"limit unset", &api.DomainError{Code: api.CodeMessageLimitUnset}, MsgMessageLimitUnset},
		{"wallet missing", &api.DomainError{Code: api.CodeWalletMissing}, MsgWalletMissing},
		{"unknown domain code", &api.DomainError{Code: "Some new error."}, MsgGenericFailure},
		{"network", &api.NetworkError{Status: 502}, MsgGenericFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.err); got != tt.want {
				t.Errorf("userMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDismissError(t *testing.T) {
	b := &fakeBackend{err: &api.NetworkError{Status: 500}}
	s := newSession(b, config.Chat{})

	_ = s.Send(context.Background(), "hi")
	if s.LastError() == "" {
		t.Fatal("expected error slot populated")
	}
	s.DismissError()
	if s.LastError() != "" {
		t.Error("error slot not cleared")
	}
}

func TestSingleInFlightSend(t *testing.T) {
	block := make(chan struct{})
	b := &fakeBackend{reply: "ok", block: block}
	s := newSession(b, config.Chat{})

	done := make(chan error, 1)
	go func() { done <- s.Send(context.Background(), "first") }()

	// Wait for the first send to be in flight.
	deadline := time.Now().Add(time.Second)
	for !s.Typing() {
		if time.Now().After(deadline) {
			t.Fatal("first send never became in-flight")
		}
		time.Sleep(time.Millisecond)
	}

	if err := s.Send(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("second send error = %v, want ErrBusy", err)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if s.Typing() {
		t.Error("typing should clear when the round trip resolves")
	}
}

func TestCustomModeRoutesWithSettings(t *testing.T) {
	b := &fakeBackend{reply: "custom reply"}
	cfg := config.Chat{Mode: "custom", BotName: "dr-bot", Temperature: 0.3, MaxTokens: 256}
	s := newSession(b, cfg)

	if err := s.Send(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	if b.customCalls != 1 || b.calls != 0 {
		t.Errorf("calls = (std %d, custom %d), want (0, 1)", b.calls, b.customCalls)
	}
	if b.lastSet.BotName != "dr-bot" || b.lastSet.MaxTokens != 256 {
		t.Errorf("settings = %+v", b.lastSet)
	}

	// Both modes resolve to the same Message shape.
	msgs := s.Messages()
	if msgs[len(msgs)-1].Sender != SenderBot || msgs[len(msgs)-1].Text != "custom reply" {
		t.Errorf("bot message = %+v", msgs[len(msgs)-1])
	}
}
