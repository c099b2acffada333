// Package mocks provides test doubles for the generation capability.
package mocks

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/DiazJL07/Braincare/internal/gemini"
)

// ScriptedResponse is one scripted reply for the generator.
type ScriptedResponse struct {
	// Reply to return when the pattern matches.
	Reply string

	// Error to return instead of a reply.
	Error error

	// PromptPattern is matched (regex) against the assembled prompt. Empty
	// matches any prompt.
	PromptPattern string

	// Delay before returning, to simulate processing time.
	Delay time.Duration

	// Repeatable responses can be used more than once.
	Repeatable bool
}

// GeneratorCall records one Generate invocation for verification.
type GeneratorCall struct {
	Prompt    string
	Timestamp time.Time
}

// ScriptedGenerator implements gemini.Generator with scripted responses.
type ScriptedGenerator struct {
	mu            sync.Mutex
	scripts       []ScriptedResponse
	calls         []GeneratorCall
	fallbackReply string
	fallbackError error
	currentIndex  int
	strictMode    bool
}

// ScriptedGeneratorOption configures a ScriptedGenerator.
type ScriptedGeneratorOption func(*ScriptedGenerator)

// WithStrictMode makes Generate fail when no script matches.
func WithStrictMode() ScriptedGeneratorOption {
	return func(g *ScriptedGenerator) {
		g.strictMode = true
	}
}

// WithFallback sets the reply used when no script matches.
func WithFallback(reply string) ScriptedGeneratorOption {
	return func(g *ScriptedGenerator) {
		g.fallbackReply = reply
	}
}

// WithFallbackError sets the error used when no script matches.
func WithFallbackError(err error) ScriptedGeneratorOption {
	return func(g *ScriptedGenerator) {
		g.fallbackError = err
	}
}

// NewScriptedGenerator creates a ScriptedGenerator with optional
// configuration.
func NewScriptedGenerator(opts ...ScriptedGeneratorOption) *ScriptedGenerator {
	g := &ScriptedGenerator{
		scripts: make([]ScriptedResponse, 0),
		calls:   make([]GeneratorCall, 0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddScript appends a scripted response to the sequence.
func (g *ScriptedGenerator) AddScript(script ScriptedResponse) *ScriptedGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.scripts = append(g.scripts, script)
	return g
}

// AddSimpleScript appends a plain reply matching any prompt.
func (g *ScriptedGenerator) AddSimpleScript(reply string) *ScriptedGenerator {
	return g.AddScript(ScriptedResponse{Reply: reply})
}

// Generate implements gemini.Generator.
func (g *ScriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()

	g.calls = append(g.calls, GeneratorCall{
		Prompt:    prompt,
		Timestamp: time.Now(),
	})

	script, found := g.matchScriptLocked(prompt)
	strict := g.strictMode
	fallbackReply := g.fallbackReply
	fallbackError := g.fallbackError
	g.mu.Unlock()

	if !found {
		switch {
		case strict:
			return "", fmt.Errorf("no script matches prompt %q", prompt)
		case fallbackError != nil:
			return "", fallbackError
		default:
			return fallbackReply, nil
		}
	}

	if script.Delay > 0 {
		select {
		case <-time.After(script.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if script.Error != nil {
		return "", script.Error
	}
	return script.Reply, nil
}

// Calls returns a copy of all recorded invocations.
func (g *ScriptedGenerator) Calls() []GeneratorCall {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]GeneratorCall, len(g.calls))
	copy(out, g.calls)
	return out
}

// CallCount returns the number of Generate invocations.
func (g *ScriptedGenerator) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// matchScriptLocked finds the next unconsumed matching script. Caller must
// hold g.mu.
func (g *ScriptedGenerator) matchScriptLocked(prompt string) (ScriptedResponse, bool) {
	for i := g.currentIndex; i < len(g.scripts); i++ {
		script := g.scripts[i]
		if script.PromptPattern != "" {
			matched, err := regexp.MatchString(script.PromptPattern, prompt)
			if err != nil || !matched {
				continue
			}
		}
		if !script.Repeatable {
			// Consume this and any skipped scripts before it.
			g.currentIndex = i + 1
		}
		return script, true
	}
	return ScriptedResponse{}, false
}

// Compile-time interface check.
var _ gemini.Generator = (*ScriptedGenerator)(nil)
