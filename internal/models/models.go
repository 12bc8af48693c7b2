package models

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one stored message in a session's conversation memory.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Size is the turn's contribution to the session memory budget.
func (t Turn) Size() int {
	return len(t.Text)
}

// Intent is the classified category of a user message.
type Intent string

const (
	IntentAcademic  Intent = "academic"
	IntentPositive  Intent = "positive"
	IntentNegative  Intent = "negative"
	IntentSafety    Intent = "safety"
	IntentNameSetup Intent = "name_setup"
	IntentGeneric   Intent = "generic"
)

// ParseIntent maps a raw label to a known Intent. It reports false for
// anything outside the closed set.
func ParseIntent(s string) (Intent, bool) {
	switch Intent(s) {
	case IntentAcademic, IntentPositive, IntentNegative, IntentSafety, IntentNameSetup, IntentGeneric:
		return Intent(s), true
	}
	return IntentGeneric, false
}

// Mark is a single subject score. Subject is Title-cased and unique within
// a session's record; scores outside [0,100] are never stored.
type Mark struct {
	Subject string `json:"subject"`
	Score   int    `json:"score"`
}

// Session holds per-user identity state. Name stays empty until the
// name-setup phase stores one.
type Session struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}
