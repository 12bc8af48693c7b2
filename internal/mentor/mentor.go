// Package mentor is the routing core: it resolves the session, runs the
// name-setup phase, classifies the message and dispatches it to the matching
// behavior tool. Requests for the same session are serialized; different
// sessions proceed independently.
package mentor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/xaenox/study-buddy/internal/classifier"
	"github.com/xaenox/study-buddy/internal/grades"
	"github.com/xaenox/study-buddy/internal/memory"
	"github.com/xaenox/study-buddy/internal/models"
	"github.com/xaenox/study-buddy/internal/oracle"
	"github.com/xaenox/study-buddy/internal/storage"
	"go.uber.org/zap"
)

type Mentor struct {
	store      storage.Storage
	classifier *classifier.Classifier
	oracle     oracle.Oracle
	memory     *memory.Manager
	logger     *zap.Logger
	locks      sync.Map // session id -> *sync.Mutex
}

func New(store storage.Storage, clf *classifier.Classifier, o oracle.Oracle, mem *memory.Manager, logger *zap.Logger) *Mentor {
	return &Mentor{
		store:      store,
		classifier: clf,
		oracle:     o,
		memory:     mem,
		logger:     logger,
	}
}

func (m *Mentor) sessionLock(sessionID string) *sync.Mutex {
	lock, _ := m.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// HandleMessage runs the full pipeline for one inbound message and returns
// the reply text. Classification and generation faults degrade to valid
// replies; only session storage failures surface as errors.
func (m *Mentor) HandleMessage(ctx context.Context, sessionID, text string) (string, error) {
	mu := m.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return "Please type something.", nil
	}

	sess, err := m.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve session: %w", err)
	}

	history, err := m.memory.Recent(ctx, sessionID)
	if err != nil {
		m.logger.Error("Failed to load conversation memory",
			zap.Error(err),
			zap.String("session_id", sessionID))
		history = nil
	}

	// Name phase intercepts everything, including a first message that
	// happens to contain marks.
	if sess.Name == "" {
		reply := m.setupName(ctx, sessionID, text)
		m.remember(ctx, sessionID, text, reply)
		return reply, nil
	}

	intent := m.classifier.Classify(ctx, text, history)

	// Safety is terminal: templated reply, no other tool runs.
	if intent == models.IntentSafety {
		m.remember(ctx, sessionID, text, SafetyMessage)
		return SafetyMessage, nil
	}

	if isFarewell(text) {
		// Farewells are not stored, matching the send-off semantics.
		return fmt.Sprintf("Bye %s. Keep going - you're capable of more than you think.", sess.Name), nil
	}

	var reply string
	switch intent {
	case models.IntentAcademic:
		reply, err = m.academicTool(ctx, sessionID, text)
		if err != nil {
			return "", err
		}
	case models.IntentPositive:
		reply = m.generate(ctx, positivePrompt(history, text), positiveFallback)
	case models.IntentNegative:
		reply = m.generate(ctx, negativePrompt(history, text), negativeFallback)
	case models.IntentNameSetup:
		reply = m.setupName(ctx, sessionID, text)
	default:
		reply = m.generate(ctx, clarifyPrompt(history, text), clarifyFallback)
	}

	m.remember(ctx, sessionID, text, reply)
	return reply, nil
}

// SetName is the explicit name-assignment entry point. An unknown session id
// is treated as session creation.
func (m *Mentor) SetName(ctx context.Context, sessionID, name string) (string, error) {
	mu := m.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	clean, ok := ExtractName(name)
	if !ok {
		clean = lastNameToken(name)
	}
	if clean == "" {
		return "I didn't catch a name there. What should I call you?", nil
	}

	if err := m.store.SetName(ctx, sessionID, clean); err != nil {
		return "", fmt.Errorf("failed to store name: %w", err)
	}

	m.remember(ctx, sessionID, fmt.Sprintf("My name is %s", clean), fmt.Sprintf("Stored name: %s.", clean))
	return fmt.Sprintf("Nice to meet you, %s. What would you like to work on today?", clean), nil
}

func (m *Mentor) setupName(ctx context.Context, sessionID, text string) string {
	name, ok := ExtractName(text)
	if !ok {
		// Name stays unset so a later message can retry.
		return "I am Study Buddy, your academic and wellness companion. What should I call you?"
	}

	if err := m.store.SetName(ctx, sessionID, name); err != nil {
		m.logger.Error("Failed to store name",
			zap.Error(err),
			zap.String("session_id", sessionID))
		return "I am Study Buddy, your academic and wellness companion. What should I call you?"
	}

	return fmt.Sprintf("Nice to meet you, %s. What would you like to work on today?", name)
}

func (m *Mentor) remember(ctx context.Context, sessionID, userText, replyText string) {
	if err := m.memory.AppendExchange(ctx, sessionID, userText, replyText); err != nil {
		m.logger.Error("Failed to store exchange",
			zap.Error(err),
			zap.String("session_id", sessionID))
	}
}

var namePattern = regexp.MustCompile(`(?i)(?:my name is|i am|i'm|call me|this is)\s+([A-Za-z]+)`)

// ExtractName finds a name token in an introduction like "Hi I am Rahul" or
// "my name is Priya". A bare single word is taken as the name itself.
func ExtractName(text string) (string, bool) {
	if m := namePattern.FindStringSubmatch(text); m != nil {
		return grades.TitleCase(m[1]), true
	}

	fields := strings.Fields(text)
	if len(fields) == 1 && isAlphabetic(fields[0]) {
		return grades.TitleCase(fields[0]), true
	}
	return "", false
}

func lastNameToken(text string) string {
	fields := strings.Fields(text)
	for i := len(fields) - 1; i >= 0; i-- {
		token := strings.Trim(fields[i], ".,!?'\"")
		if isAlphabetic(token) {
			return grades.TitleCase(token)
		}
	}
	return ""
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

var farewells = []string{"bye", "goodbye", "see you", "take care"}

func isFarewell(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range farewells {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
