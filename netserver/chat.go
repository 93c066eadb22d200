package netserver

import (
	"strings"
	"time"

	"github.com/onuse/cubeworld/interest"
	"github.com/onuse/cubeworld/world"
)

// ChatScopeKind distinguishes a global broadcast from a
// proximity-limited one.
type ChatScopeKind int

const (
	ChatGlobal ChatScopeKind = iota
	ChatProximity
)

// ChatScope determines which players receive a chat message. Radius
// is only meaningful when Kind is ChatProximity.
type ChatScope struct {
	Kind   ChatScopeKind
	Radius float64
}

// ChatMessageIntent is a chat message submitted by a client, before
// server validation.
type ChatMessageIntent struct {
	Scope   ChatScope
	Content string
}

// ChatMessage is a validated, server-stamped chat message ready for
// delivery to clients.
type ChatMessage struct {
	SenderNetworkID world.NetworkID
	SenderName      string
	Scope           ChatScope
	Content         string
	ServerTick      uint64
	TimestampMs     uint64
}

// ChatConfig holds the server-side chat rules.
type ChatConfig struct {
	MaxMessageLength   int
	RateLimitMessages  uint32
	RateLimitWindow    time.Duration
	ProximityRadius    float64
}

// DefaultChatConfig: 500-char cap, 5 messages per 10s, 50m default
// proximity radius.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		MaxMessageLength:  500,
		RateLimitMessages: 5,
		RateLimitWindow:   10 * time.Second,
		ProximityRadius:   50.0,
	}
}

// RateTracker is a per-client sliding-window rate limiter.
type RateTracker struct {
	timestamps []time.Time
	maxCount   uint32
	window     time.Duration
}

// NewRateTracker returns a tracker allowing maxCount messages per window.
func NewRateTracker(maxCount uint32, window time.Duration) *RateTracker {
	return &RateTracker{maxCount: maxCount, window: window}
}

// Allow reports whether another message is allowed right now, and if
// so records it against the window.
func (r *RateTracker) Allow(now time.Time) bool {
	i := 0
	for i < len(r.timestamps) && now.Sub(r.timestamps[i]) > r.window {
		i++
	}
	r.timestamps = r.timestamps[i:]

	if uint32(len(r.timestamps)) >= r.maxCount {
		return false
	}
	r.timestamps = append(r.timestamps, now)
	return true
}

// ChatRejection is why a chat message was rejected by the server.
type ChatRejection int

const (
	RejectNone ChatRejection = iota
	RejectTooLong
	RejectEmpty
	RejectRateLimited
)

// ValidateChatMessage checks intent against config and the sender's
// rate tracker, returning RejectNone on success.
func ValidateChatMessage(config ChatConfig, tracker *RateTracker, intent ChatMessageIntent, now time.Time) ChatRejection {
	if len(intent.Content) > config.MaxMessageLength {
		return RejectTooLong
	}
	if strings.TrimSpace(intent.Content) == "" {
		return RejectEmpty
	}
	if !tracker.Allow(now) {
		return RejectRateLimited
	}
	return RejectNone
}

// ConnectedClient is a minimal descriptor used by BroadcastChat to
// decide recipients.
type ConnectedClient struct {
	ClientID world.ClientID
	Position interest.Position
}

// BroadcastChat determines which clients should receive msg: every
// client for ChatGlobal, or only those within Scope.Radius of
// senderPos for ChatProximity.
func BroadcastChat(msg ChatMessage, senderPos interest.Position, clients []ConnectedClient) []world.ClientID {
	var recipients []world.ClientID
	for _, c := range clients {
		switch msg.Scope.Kind {
		case ChatGlobal:
			recipients = append(recipients, c.ClientID)
		case ChatProximity:
			if interest.WithinRadius(senderPos, c.Position, msg.Scope.Radius) {
				recipients = append(recipients, c.ClientID)
			}
		}
	}
	return recipients
}
