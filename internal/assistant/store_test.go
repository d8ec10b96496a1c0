package assistant_test

import (
	"testing"

	"github.com/devpath-labs/devpath/internal/assistant"
)

func TestConversationStore_Interface(t *testing.T) {
	store := assistant.NewMemoryStore()

	id, err := store.CreateConversation(assistant.Conversation{
		UserID:   "u-1",
		Messages: []assistant.StoredMessage{},
	})
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}
	if id == "" {
		t.Error("CreateConversation() returned empty ID")
	}

	err = store.AddMessage(id, assistant.StoredMessage{
		Role:    "user",
		Content: "What is a closure?",
	})
	if err != nil {
		t.Fatalf("AddMessage() error = %v", err)
	}

	got, err := store.GetConversation(id)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if len(got.Messages) != 1 {
		t.Errorf("Messages count = %d, want 1", len(got.Messages))
	}
}

func TestConversationStore_GetActiveForUser(t *testing.T) {
	store := assistant.NewMemoryStore()

	_, err := store.CreateConversation(assistant.Conversation{UserID: "u-1"})
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	active, found := store.GetActiveConversation("u-1")
	if !found {
		t.Error("GetActiveConversation() should find active conversation")
	}
	if active.UserID != "u-1" {
		t.Errorf("UserID = %q, want u-1", active.UserID)
	}
}

func TestConversationStore_GetActiveForUser_NotFound(t *testing.T) {
	store := assistant.NewMemoryStore()

	_, found := store.GetActiveConversation("nonexistent")
	if found {
		t.Error("GetActiveConversation() should not find non-existent user")
	}
}

func TestConversationStore_EndConversation(t *testing.T) {
	store := assistant.NewMemoryStore()

	id, _ := store.CreateConversation(assistant.Conversation{UserID: "u-1"})

	if err := store.EndConversation(id); err != nil {
		t.Fatalf("EndConversation() error = %v", err)
	}

	// Should no longer be active
	_, found := store.GetActiveConversation("u-1")
	if found {
		t.Error("GetActiveConversation() should not find ended conversation")
	}
}

func TestConversationStore_MultipleMessages(t *testing.T) {
	store := assistant.NewMemoryStore()

	id, _ := store.CreateConversation(assistant.Conversation{UserID: "u-1"})

	_ = store.AddMessage(id, assistant.StoredMessage{Role: "user", Content: "Hello"})
	_ = store.AddMessage(id, assistant.StoredMessage{Role: "assistant", Content: "Hi!"})
	_ = store.AddMessage(id, assistant.StoredMessage{Role: "user", Content: "What is a slice?"})

	got, _ := store.GetConversation(id)
	if len(got.Messages) != 3 {
		t.Errorf("Messages count = %d, want 3", len(got.Messages))
	}
}

func TestConversationStore_SetSummary(t *testing.T) {
	store := assistant.NewMemoryStore()

	id, _ := store.CreateConversation(assistant.Conversation{UserID: "u-1"})

	err := store.SetSummary(id, "Learner debugged a recursion bug.", 10)
	if err != nil {
		t.Fatalf("SetSummary() error = %v", err)
	}

	got, _ := store.GetConversation(id)
	if got.Summary != "Learner debugged a recursion bug." {
		t.Errorf("Summary = %q, want the saved summary", got.Summary)
	}
	if got.CompactedAt != 10 {
		t.Errorf("CompactedAt = %d, want 10", got.CompactedAt)
	}
}

func TestConversationStore_SetSummary_NotFound(t *testing.T) {
	store := assistant.NewMemoryStore()

	if err := store.SetSummary("nonexistent", "summary", 5); err == nil {
		t.Error("SetSummary() should error for non-existent conversation")
	}
}

func TestConversationStore_AddMessage_NotFound(t *testing.T) {
	store := assistant.NewMemoryStore()

	err := store.AddMessage("nonexistent", assistant.StoredMessage{Role: "user", Content: "Hello"})
	if err == nil {
		t.Error("AddMessage() should error for non-existent conversation")
	}
}
