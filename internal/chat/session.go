// Package chat maintains the assistant conversation: an append-only message
// log, a typing indicator and the send round trip. Errors surface in a
// dismissible slot, never as transcript entries, and the optimistic user
// message stays in place on failure.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/bus"
	"github.com/medogram/medoterm/internal/config"
	"github.com/medogram/medoterm/internal/store"
	"go.uber.org/zap"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one transcript entry.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp time.Time
}

const welcomeID = "welcome"
const welcomeText = "Hello! I'm the Medogram assistant. Describe your symptoms and I'll do my best to help."

// User-facing strings for recognized business errors, plus the generic fallback.
const (
	MsgInsufficientFunds = "Your wallet balance is not enough to send a message. Please top up your BoxMoney."
	MsgMessageLimitUnset = "Your message limit has not been set yet. Please contact support."
	MsgWalletMissing     = "No wallet was found for your account. Please top up to create one."
	MsgGenericFailure    = "Something went wrong sending your message. Please try again."
)

// ErrBusy is returned when a send is already in flight.
var ErrBusy = errors.New("chat send already in flight")

// Backend is the slice of the API the session depends on. Both endpoints
// resolve to the same reply shape.
type Backend interface {
	SendChatMessage(ctx context.Context, message string) (string, error)
	SendCustomChatMessage(ctx context.Context, message string, settings api.ChatSettings) (string, error)
}

// Session holds the conversation state. At most one send is in flight; the
// typing flag doubles as the in-flight guard, so the composer stays disabled
// for the whole round trip.
type Session struct {
	mu        sync.RWMutex
	messages  []Message
	typing    bool
	lastError string

	cfg    config.Chat
	client Backend
	db     *store.DB
	bus    *bus.Bus
	logger *zap.Logger

	// replyDelay postpones showing the bot reply after a successful round
	// trip. Zero in tests.
	replyDelay time.Duration
}

// NewSession creates a session seeded with the welcome message and any
// persisted transcript.
func NewSession(client Backend, cfg config.Chat, db *store.DB, b *bus.Bus, logger *zap.Logger) *Session {
	s := &Session{
		cfg:        cfg,
		client:     client,
		db:         db,
		bus:        b,
		logger:     logger,
		replyDelay: time.Second,
	}
	s.messages = append(s.messages, Message{
		ID:        welcomeID,
		Text:      welcomeText,
		Sender:    SenderBot,
		Timestamp: time.Now(),
	})

	if db != nil {
		persisted, err := db.ListChatMessages(0)
		if err != nil {
			logger.Warn("transcript load failed", zap.Error(err))
			return s
		}
		for _, m := range persisted {
			s.messages = append(s.messages, Message{
				ID:        m.MsgID,
				Text:      m.Body,
				Sender:    Sender(m.Sender),
				Timestamp: time.UnixMilli(m.CreatedAt),
			})
		}
	}
	return s
}

// Messages returns a snapshot of the transcript.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Typing reports whether a round trip is in flight.
func (s *Session) Typing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typing
}

// LastError returns the current dismissible error message, "" if none.
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// DismissError clears the error slot.
func (s *Session) DismissError() {
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

// Send posts a user message. The user entry is appended optimistically
// before the round trip; on success the bot reply is appended after the
// display delay; on failure only the error slot is populated.
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &api.ValidationError{Field: "message", Reason: "must not be empty"}
	}

	s.mu.Lock()
	if s.typing {
		s.mu.Unlock()
		return ErrBusy
	}
	s.typing = true
	s.lastError = ""
	s.mu.Unlock()
	s.publishTyping(true)

	defer func() {
		s.mu.Lock()
		s.typing = false
		s.mu.Unlock()
		s.publishTyping(false)
	}()

	s.append(Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: time.Now(),
	})

	var reply string
	var err error
	if s.cfg.Mode == "custom" {
		reply, err = s.client.SendCustomChatMessage(ctx, text, api.ChatSettings{
			BotName:     s.cfg.BotName,
			Temperature: s.cfg.Temperature,
			MaxTokens:   s.cfg.MaxTokens,
		})
	} else {
		reply, err = s.client.SendChatMessage(ctx, text)
	}
	if err != nil {
		s.logger.Warn("chat send failed", zap.Error(err))
		s.mu.Lock()
		s.lastError = userMessage(err)
		s.mu.Unlock()
		return err
	}

	if s.replyDelay > 0 {
		select {
		case <-time.After(s.replyDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.append(Message{
		ID:        uuid.New().String(),
		Text:      reply,
		Sender:    SenderBot,
		Timestamp: time.Now(),
	})
	return nil
}

func (s *Session) append(m Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()

	if s.db != nil {
		if err := s.db.UpsertChatMessage(&store.ChatMessage{
			MsgID:     m.ID,
			Sender:    string(m.Sender),
			Body:      m.Text,
			CreatedAt: m.Timestamp.UnixMilli(),
		}); err != nil {
			s.logger.Warn("transcript persist failed", zap.Error(err))
		}
	}
	if s.bus != nil {
		s.bus.Publish(bus.Event{Kind: bus.KindChatAppended, Timestamp: time.Now(), Payload: m})
	}
}

func (s *Session) publishTyping(on bool) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{Kind: bus.KindChatTyping, Timestamp: time.Now(), Payload: on})
}

// userMessage maps an error to its user-facing string. Recognized business
// codes get specific messages; everything else falls back to the generic one.
func userMessage(err error) string {
	var derr *api.DomainError
	if errors.As(err, &derr) {
		switch derr.Code {
		case api.CodeInsufficientFunds:
			return MsgInsufficientFunds
		case api.CodeMessageLimitUnset:
			return MsgMessageLimitUnset
		case api.CodeWalletMissing:
			return MsgWalletMissing
		}
	}
	var aerr *api.AuthError
	if errors.As(err, &aerr) {
		return "You must verify your account before chatting."
	}
	return MsgGenericFailure
}
