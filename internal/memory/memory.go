// Package memory bounds each session's conversation history. Turns are
// append-only; once the cumulative size exceeds the configured budget the
// oldest turns are evicted first. The exchange being appended is never
// evicted, even when it alone exceeds the budget.
package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/study-buddy/internal/models"
	"github.com/xaenox/study-buddy/internal/storage"
	"go.uber.org/zap"
)

const DefaultBudget = 8000

type Manager struct {
	store  storage.Storage
	budget int
	logger *zap.Logger
}

func NewManager(store storage.Storage, budget int, logger *zap.Logger) *Manager {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Manager{
		store:  store,
		budget: budget,
		logger: logger,
	}
}

// AppendExchange stores one user/assistant turn pair and trims the session
// back under the budget, oldest turns first.
func (m *Manager) AppendExchange(ctx context.Context, sessionID, userText, replyText string) error {
	now := time.Now()
	pair := []models.Turn{
		{ID: uuid.New().String(), Role: models.RoleUser, Text: userText, CreatedAt: now},
		{ID: uuid.New().String(), Role: models.RoleAssistant, Text: replyText, CreatedAt: now},
	}

	for _, turn := range pair {
		if err := m.store.AppendTurn(ctx, sessionID, turn); err != nil {
			return fmt.Errorf("failed to append turn: %w", err)
		}
	}

	turns, err := m.store.Turns(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load turns for trimming: %w", err)
	}

	if drop := m.overflow(turns); drop > 0 {
		if err := m.store.DropOldestTurns(ctx, sessionID, drop); err != nil {
			return fmt.Errorf("failed to trim turns: %w", err)
		}
		m.logger.Debug("Trimmed conversation memory",
			zap.String("session_id", sessionID),
			zap.Int("evicted", drop))
	}

	return nil
}

// Recent returns the retained turns in chronological order.
func (m *Manager) Recent(ctx context.Context, sessionID string) ([]models.Turn, error) {
	return m.store.Turns(ctx, sessionID)
}

// overflow returns how many of the oldest turns must go to fit the budget.
// The newest exchange (last two turns) is always retained.
func (m *Manager) overflow(turns []models.Turn) int {
	total := 0
	for _, t := range turns {
		total += t.Size()
	}

	drop := 0
	for total > m.budget && len(turns)-drop > 2 {
		total -= turns[drop].Size()
		drop++
	}
	return drop
}

// Render formats turns as prompt context, one line per turn.
func Render(turns []models.Turn) string {
	if len(turns) == 0 {
		return "(no previous conversation)"
	}

	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		who := "USER"
		if t.Role == models.RoleAssistant {
			who = "BOT"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", who, t.Text))
	}
	return strings.Join(lines, "\n")
}
