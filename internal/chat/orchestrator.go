// Package chat orchestrates the conversation flow: resolve history, build
// the grounded prompt, call the model, record the reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DiazJL07/Braincare/internal/config"
	"github.com/DiazJL07/Braincare/internal/conversation"
	"github.com/DiazJL07/Braincare/internal/gemini"
)

// ErrEmptyPrompt indicates a chat request without a prompt.
var ErrEmptyPrompt = errors.New("missing prompt")

// Result is the outcome of a successful chat turn.
type Result struct {
	Reply     string
	SessionID string
	Record    conversation.Record
}

// Orchestrator owns the request path from prompt to recorded reply. Each
// call is synchronous; the generation call is the only blocking point.
type Orchestrator struct {
	store     *conversation.Store
	generator gemini.Generator
	persona   string
	logger    *slog.Logger
}

// Option is a functional option for configuring an Orchestrator.
type Option func(*Orchestrator)

// WithGenerator sets the generation capability. Leaving it unset models a
// deployment without credentials: chat fails with a NotConfiguredError
// while the rest of the service keeps working.
func WithGenerator(g gemini.Generator) Option {
	return func(o *Orchestrator) {
		o.generator = g
	}
}

// WithPersona overrides the persona instruction prefixed to every prompt.
func WithPersona(persona string) Option {
	return func(o *Orchestrator) {
		if persona != "" {
			o.persona = persona
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator creates an orchestrator over the given store.
func NewOrchestrator(store *conversation.Store, opts ...Option) (*Orchestrator, error) {
	if store == nil {
		return nil, fmt.Errorf("orchestrator creation failed: store is required")
	}

	o := &Orchestrator{
		store:   store,
		persona: config.DefaultPersona(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Ready reports whether the generation capability is configured.
func (o *Orchestrator) Ready() bool {
	return o.generator != nil
}

// Chat runs one conversation turn. The user message is appended before the
// generation call and is not rolled back on failure, so a client replaying
// the conversation after an error still sees its own message.
func (o *Orchestrator) Chat(ctx context.Context, prompt, sessionID, userID string) (Result, error) {
	if prompt == "" {
		return Result{}, ErrEmptyPrompt
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
		o.logger.DebugContext(ctx, "Generated session id",
			slog.String("session_id", sessionID),
		)
	}
	key := conversation.NewKey(sessionID, userID)

	record := o.store.Append(key, conversation.RoleUser, prompt)

	if o.generator == nil {
		return Result{}, &gemini.NotConfiguredError{Message: "generation capability is not configured"}
	}

	start := time.Now()
	reply, err := o.generator.Generate(ctx, o.buildPrompt(record.History))
	if err != nil {
		o.logger.ErrorContext(ctx, "Generation failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
		return Result{}, err
	}

	record = o.store.Append(key, conversation.RoleAssistant, reply)

	o.logger.InfoContext(ctx, "Chat turn completed",
		slog.String("session_id", sessionID),
		slog.Int("history_len", len(record.History)),
		slog.Duration("gen_latency", time.Since(start)),
	)

	return Result{
		Reply:     reply,
		SessionID: sessionID,
		Record:    record,
	}, nil
}

// Conversation returns the record for the given ids. Fails with
// conversation.ErrNotFound when the session id is empty or unknown; it
// never substitutes a default session.
func (o *Orchestrator) Conversation(sessionID, userID string) (conversation.Record, error) {
	return o.store.Get(conversation.NewKey(sessionID, userID))
}

// Clear empties the history for the given ids. Clearing an unknown session
// succeeds; only a missing session id is an error.
func (o *Orchestrator) Clear(sessionID, userID string) error {
	return o.store.Clear(conversation.NewKey(sessionID, userID))
}

// buildPrompt assembles the single generation request: persona instruction,
// full chronological transcript, then the instruction to answer the latest
// user message.
func (o *Orchestrator) buildPrompt(history []conversation.Message) string {
	var sb strings.Builder
	sb.WriteString(o.persona)
	sb.WriteString("\n\nHistorial de conversación:\n")
	sb.WriteString(conversation.Transcript(history))
	sb.WriteString("\n\nResponde al último mensaje del usuario de manera conversacional:")
	return sb.String()
}
