package netserver

import (
	"testing"
	"time"

	"github.com/onuse/cubeworld/interest"
)

func TestMessageSentAndReceivedByAll(t *testing.T) {
	config := DefaultChatConfig()
	tracker := NewRateTracker(config.RateLimitMessages, config.RateLimitWindow)
	now := time.Now()

	intent := ChatMessageIntent{Scope: ChatScope{Kind: ChatGlobal}, Content: "Hello"}
	if r := ValidateChatMessage(config, tracker, intent, now); r != RejectNone {
		t.Fatalf("expected accepted, got rejection %v", r)
	}

	msg := ChatMessage{SenderNetworkID: 1, SenderName: "Alice", Scope: intent.Scope, Content: intent.Content, ServerTick: 42, TimestampMs: 1_700_000_000_000}

	clients := []ConnectedClient{
		{ClientID: 2, Position: interest.Position{X: 0, Y: 0, Z: 0}},
		{ClientID: 3, Position: interest.Position{X: 100, Y: 0, Z: 0}},
		{ClientID: 4, Position: interest.Position{X: 999, Y: 0, Z: 0}},
	}

	recipients := BroadcastChat(msg, interest.Position{X: 0, Y: 0, Z: 0}, clients)
	if len(recipients) != 3 {
		t.Fatalf("expected all 3 clients, got %v", recipients)
	}
	if msg.SenderNetworkID != 1 || msg.Content != "Hello" || msg.TimestampMs == 0 {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestProximityChatLimitedByDistance(t *testing.T) {
	config := DefaultChatConfig()
	tracker := NewRateTracker(config.RateLimitMessages, config.RateLimitWindow)
	now := time.Now()

	intent := ChatMessageIntent{Scope: ChatScope{Kind: ChatProximity, Radius: 50.0}, Content: "Psst"}
	if r := ValidateChatMessage(config, tracker, intent, now); r != RejectNone {
		t.Fatalf("expected accepted, got rejection %v", r)
	}

	msg := ChatMessage{SenderNetworkID: 1, SenderName: "Alice", Scope: intent.Scope, Content: intent.Content, ServerTick: 10, TimestampMs: 1_700_000_000_000}

	senderPos := interest.Position{X: 0, Y: 0, Z: 0}
	clients := []ConnectedClient{
		{ClientID: 2, Position: interest.Position{X: 30, Y: 0, Z: 0}},
		{ClientID: 3, Position: interest.Position{X: 100, Y: 0, Z: 0}},
	}

	recipients := BroadcastChat(msg, senderPos, clients)
	if len(recipients) != 1 || recipients[0] != 2 {
		t.Fatalf("expected only client 2, got %v", recipients)
	}
}

func TestMessageLengthLimitEnforced(t *testing.T) {
	config := DefaultChatConfig()
	tracker := NewRateTracker(config.RateLimitMessages, config.RateLimitWindow)

	content := make([]byte, 600)
	for i := range content {
		content[i] = 'x'
	}
	intent := ChatMessageIntent{Scope: ChatScope{Kind: ChatGlobal}, Content: string(content)}

	if r := ValidateChatMessage(config, tracker, intent, time.Now()); r != RejectTooLong {
		t.Fatalf("expected RejectTooLong, got %v", r)
	}
}

func TestRateLimitingPreventsSpam(t *testing.T) {
	config := DefaultChatConfig()
	tracker := NewRateTracker(config.RateLimitMessages, config.RateLimitWindow)
	now := time.Now()

	intent := ChatMessageIntent{Scope: ChatScope{Kind: ChatGlobal}, Content: "msg"}
	for i := 0; i < 5; i++ {
		if r := ValidateChatMessage(config, tracker, intent, now); r != RejectNone {
			t.Fatalf("message %d should be accepted, got %v", i, r)
		}
	}
	if r := ValidateChatMessage(config, tracker, intent, now); r != RejectRateLimited {
		t.Fatalf("6th message should be rate limited, got %v", r)
	}
}

func TestTimestampIsServerAuthoritative(t *testing.T) {
	config := DefaultChatConfig()
	tracker := NewRateTracker(config.RateLimitMessages, config.RateLimitWindow)

	intent := ChatMessageIntent{Scope: ChatScope{Kind: ChatGlobal}, Content: "Hello"}
	if r := ValidateChatMessage(config, tracker, intent, time.Now()); r != RejectNone {
		t.Fatalf("expected accepted, got %v", r)
	}

	msg := ChatMessage{SenderNetworkID: 5, SenderName: "Bob", Scope: intent.Scope, Content: intent.Content, ServerTick: 77, TimestampMs: 1_700_000_042_000}

	if msg.ServerTick != 77 || msg.TimestampMs != 1_700_000_042_000 || msg.SenderNetworkID != 5 {
		t.Fatalf("timestamp/tick must come from server stamping, got %+v", msg)
	}
}

func TestRateTrackerWindowExpiry(t *testing.T) {
	tracker := NewRateTracker(2, 10*time.Millisecond)
	base := time.Now()

	if !tracker.Allow(base) {
		t.Fatal("first message should be allowed")
	}
	if !tracker.Allow(base) {
		t.Fatal("second message should be allowed")
	}
	if tracker.Allow(base) {
		t.Fatal("third message within window should be rate limited")
	}
	if !tracker.Allow(base.Add(20 * time.Millisecond)) {
		t.Fatal("message after window expiry should be allowed again")
	}
}
