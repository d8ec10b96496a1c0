// Package assistant implements the AI chat collaborator that answers
// coding questions alongside the course content.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devpath-labs/devpath/internal/ai"
)

const (
	defaultCompactThreshold      = 20
	defaultCompactTokenThreshold = 20000 // ~20k estimated tokens triggers compaction
	defaultKeepRecent            = 6
	defaultMaxTokens             = 1024
)

// ErrBudgetExhausted is returned when the user has no assistant token
// budget left.
var ErrBudgetExhausted = errors.New("assistant token budget exhausted")

// Config holds dependencies for the assistant engine.
type Config struct {
	Router                *ai.Router
	Store                 ConversationStore
	Events                EventLogger
	Budget                ai.BudgetChecker
	Model                 string
	MaxTokens             int
	CompactThreshold      int // messages before compaction triggers
	CompactTokenThreshold int // estimated tokens before compaction triggers
	KeepRecent            int // recent messages kept verbatim after compaction
}

// Engine is the core conversation processor.
type Engine struct {
	router                *ai.Router
	store                 ConversationStore
	events                EventLogger
	budget                ai.BudgetChecker
	model                 string
	maxTokens             int
	compactThreshold      int
	compactTokenThreshold int
	keepRecent            int
}

// NewEngine creates a new assistant engine.
func NewEngine(cfg Config) *Engine {
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	events := cfg.Events
	if events == nil {
		events = NopEventLogger{}
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	threshold := cfg.CompactThreshold
	if threshold == 0 {
		threshold = defaultCompactThreshold
	}
	tokenThreshold := cfg.CompactTokenThreshold
	if tokenThreshold == 0 {
		tokenThreshold = defaultCompactTokenThreshold
	}
	keepRecent := cfg.KeepRecent
	if keepRecent == 0 {
		keepRecent = defaultKeepRecent
	}
	return &Engine{
		router:                cfg.Router,
		store:                 store,
		events:                events,
		budget:                cfg.Budget,
		model:                 cfg.Model,
		maxTokens:             maxTokens,
		compactThreshold:      threshold,
		compactTokenThreshold: tokenThreshold,
		keepRecent:            keepRecent,
	}
}

// Chat appends the user's message to their active conversation, asks the
// AI router for a reply, and records both sides of the exchange.
func (e *Engine) Chat(ctx context.Context, userID, text string) (string, error) {
	slog.Info("processing assistant message",
		"user_id", userID,
		"text_len", len(text),
	)

	if e.budget != nil {
		ok, err := e.budget.Check(userID)
		if err != nil {
			return "", fmt.Errorf("check budget: %w", err)
		}
		if !ok {
			return "", ErrBudgetExhausted
		}
	}

	conv, err := e.getOrCreateConversation(userID)
	if err != nil {
		return "", fmt.Errorf("get conversation: %w", err)
	}

	if err := e.store.AddMessage(conv.ID, StoredMessage{
		Role:    "user",
		Content: text,
	}); err != nil {
		slog.Error("failed to store user message", "error", err)
	}

	// Refresh to pick up the message just added.
	conv, _ = e.store.GetConversation(conv.ID)

	e.maybeCompact(ctx, conv)

	messages := []ai.Message{{Role: "system", Content: systemPrompt}}
	messages = append(messages, e.buildContextMessages(conv)...)

	resp, err := e.router.Complete(ctx, ai.CompletionRequest{
		Messages:  messages,
		Model:     e.model,
		MaxTokens: e.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("assistant completion: %w", err)
	}

	if err := e.store.AddMessage(conv.ID, StoredMessage{
		Role:         "assistant",
		Content:      resp.Content,
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}); err != nil {
		slog.Error("failed to store assistant message", "error", err)
	}

	if e.budget != nil {
		if err := e.budget.Record(userID, resp.TotalTokens()); err != nil {
			slog.Warn("failed to record token usage", "error", err)
		}
	}

	if err := e.events.LogEvent(Event{
		ConversationID: conv.ID,
		UserID:         userID,
		EventType:      "chat_completed",
		Data: map[string]any{
			"model":  resp.Model,
			"tokens": resp.TotalTokens(),
		},
	}); err != nil {
		slog.Warn("failed to log assistant event", "error", err)
	}

	return resp.Content, nil
}

// Reset ends the user's active conversation so the next Chat starts
// fresh.
func (e *Engine) Reset(userID string) error {
	conv, found := e.store.GetActiveConversation(userID)
	if !found {
		return nil
	}
	return e.store.EndConversation(conv.ID)
}

// History returns the messages of the user's active conversation, oldest
// first.
func (e *Engine) History(userID string) []StoredMessage {
	conv, found := e.store.GetActiveConversation(userID)
	if !found {
		return []StoredMessage{}
	}
	conv, err := e.store.GetConversation(conv.ID)
	if err != nil {
		return []StoredMessage{}
	}
	return append([]StoredMessage{}, conv.Messages...)
}

// buildContextMessages returns the conversation messages for the AI
// prompt. If a summary exists it stands in for the compacted prefix.
func (e *Engine) buildContextMessages(conv *Conversation) []ai.Message {
	var messages []ai.Message

	if conv.Summary != "" {
		messages = append(messages, ai.Message{
			Role:    "user",
			Content: "Previous conversation summary:\n" + conv.Summary,
		})
		messages = append(messages, ai.Message{
			Role:    "assistant",
			Content: "Understood, I'll continue based on our previous conversation.",
		})
		for _, m := range conv.Messages[conv.CompactedAt:] {
			messages = append(messages, ai.Message{Role: m.Role, Content: m.Content})
		}
	} else {
		for _, m := range conv.Messages {
			messages = append(messages, ai.Message{Role: m.Role, Content: m.Content})
		}
	}

	return messages
}

// estimateTokens gives a rough token count for messages (1 token ~ 4 chars).
func estimateTokens(messages []StoredMessage) int {
	total := 0
	for _, m := range messages {
		total += len(m.Content) / 4
	}
	return total
}

// maybeCompact summarizes the older part of a long conversation so the
// prompt stays bounded. Only messages since the last compaction count
// toward the thresholds.
func (e *Engine) maybeCompact(ctx context.Context, conv *Conversation) {
	uncompacted := conv.Messages[conv.CompactedAt:]
	if len(uncompacted) <= e.compactThreshold && estimateTokens(uncompacted) <= e.compactTokenThreshold {
		return
	}

	compactUpTo := len(conv.Messages) - e.keepRecent
	if compactUpTo <= conv.CompactedAt {
		return
	}

	toSummarize := conv.Messages[conv.CompactedAt:compactUpTo]

	var content strings.Builder
	if conv.Summary != "" {
		content.WriteString("Previous summary:\n")
		content.WriteString(conv.Summary)
		content.WriteString("\n\nNew messages to incorporate:\n")
	}
	for _, m := range toSummarize {
		role := "Learner"
		if m.Role == "assistant" {
			role = "Assistant"
		}
		content.WriteString(fmt.Sprintf("%s: %s\n", role, m.Content))
	}

	resp, err := e.router.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			{Role: "system", Content: `Summarize this coding help conversation concisely. Capture:
- Questions asked and concepts explained
- Code the learner was working on
- Any open problems still being debugged
Keep the summary under 150 words.`},
			{Role: "user", Content: content.String()},
		},
		Model:     e.model,
		MaxTokens: 256,
	})
	if err != nil {
		slog.Warn("compaction failed, continuing without summary", "error", err)
		return
	}

	if err := e.store.SetSummary(conv.ID, resp.Content, compactUpTo); err != nil {
		slog.Warn("failed to save summary", "error", err)
		return
	}

	conv.Summary = resp.Content
	conv.CompactedAt = compactUpTo

	slog.Info("conversation compacted",
		"conversation_id", conv.ID,
		"compacted_messages", compactUpTo,
		"remaining_messages", len(conv.Messages)-compactUpTo,
	)
}

func (e *Engine) getOrCreateConversation(userID string) (*Conversation, error) {
	conv, found := e.store.GetActiveConversation(userID)
	if found {
		return conv, nil
	}
	id, err := e.store.CreateConversation(Conversation{UserID: userID})
	if err != nil {
		return nil, err
	}
	return e.store.GetConversation(id)
}

const systemPrompt = `You are the DevPath assistant, a friendly coding helper embedded in a developer learning platform.

The platform teaches Python, JavaScript, HTML & CSS, and Git. Learners open you while reading course topics or working through quiz questions.

STYLE:
- Answer the question asked; keep responses short, this is a chat panel
- Show small runnable code examples instead of long prose
- When a learner pastes broken code, point at the actual bug before suggesting rewrites
- If a question is ambiguous, ask one clarifying question

RULES:
- Never invent APIs; if unsure, say so
- Prefer the language the learner is asking about for examples
- Do not reveal quiz answers verbatim; explain the underlying concept instead`
