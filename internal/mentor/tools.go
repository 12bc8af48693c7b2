package mentor

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaenox/study-buddy/internal/grades"
	"github.com/xaenox/study-buddy/internal/memory"
	"github.com/xaenox/study-buddy/internal/models"
	"go.uber.org/zap"
)

// SafetyMessage is the crisis reply. It is a constant on purpose: the safety
// path must stay deterministic and cannot fail at render time.
const SafetyMessage = "I'm really sorry you're feeling like this.\n" +
	"I'm not able to help directly, but you should reach out to someone who can support you right now.\n" +
	"India → Aasra: +91 9820466726 | iCall: 022-25521111\n" +
	"You're not alone. Please talk to someone immediately."

const (
	positiveFallback = "That's wonderful to hear. What achievement made your day?"
	negativeFallback = "It's okay to feel this way sometimes. Try writing down one small task and finishing it today - that helps you feel back in control."
	clarifyFallback  = "I'm not sure I followed that. Could you tell me a bit more - is this about your marks, how you're feeling, or something else?"
	noMarksReply     = "I don't have any marks saved yet. Tell me your scores like: 'Maths - 91, Physics - 80'."
)

var scaleKeywords = []string{"scale", "grading", "criteria", "grade range"}

// academicTool updates the record from any marks found in the message and
// replies with the full summary. Messages with no parseable marks fall back
// to showing the stored record, or a how-to prompt when there is none.
func (m *Mentor) academicTool(ctx context.Context, sessionID, text string) (string, error) {
	lower := strings.ToLower(text)
	for _, kw := range scaleKeywords {
		if strings.Contains(lower, kw) {
			return grades.ScaleLine, nil
		}
	}

	record, err := m.store.Marks(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load academic record: %w", err)
	}

	pairs := grades.ExtractMarks(text)
	if len(pairs) > 0 {
		updated, applied := grades.Apply(record, pairs)
		if len(applied) > 0 {
			for _, mark := range applied {
				if err := m.store.UpsertMark(ctx, sessionID, mark); err != nil {
					return "", fmt.Errorf("failed to save mark: %w", err)
				}
			}
			summary, _ := grades.Summarize(updated)
			return formatUpdated(summary), nil
		}
		// Every extracted pair was out of range; show what we have instead.
	}

	if summary, ok := grades.Summarize(record); ok {
		return formatSummary(summary), nil
	}
	return noMarksReply, nil
}

// generate runs one oracle call and substitutes the fallback text on any
// failure so the user always gets a valid reply.
func (m *Mentor) generate(ctx context.Context, prompt, fallback string) string {
	reply, err := m.oracle.Complete(ctx, prompt)
	if err != nil {
		m.logger.Error("Oracle call failed", zap.Error(err))
		return fallback
	}
	if strings.TrimSpace(reply) == "" {
		return fallback
	}
	return strings.TrimSpace(reply)
}

func positivePrompt(history []models.Turn, text string) string {
	return fmt.Sprintf(`You are a motivating study mentor.

Conversation so far:
%s

User: %s

Goals:
- Acknowledge their positive feeling.
- Sound energetic but not cringe.
- Focus only on the user (use "you", not "I").
- NEVER talk about your own feelings or what "someone told you".
- End with one mentor-style question like:
  "What achievement made your day?" or
  "What are you most proud of today?"
Keep it within 2 sentences.`, memory.Render(history), text)
}

func negativePrompt(history []models.Turn, text string) string {
	return fmt.Sprintf(`You are a calm, motivating mentor.

Conversation so far:
%s

User: %s

Goals:
- Acknowledge their feeling (stress, sadness, etc.).
- Normalize the struggle (it's okay, it happens).
- Suggest exactly one small, specific action they can take today to feel more in control.
- Keep the focus on "you", not "I".
- Keep it concise (2 sentences).`, memory.Render(history), text)
}

func clarifyPrompt(history []models.Turn, text string) string {
	return fmt.Sprintf(`You are a friendly study mentor. The user's message did not
clearly ask for academic help or emotional support.

Conversation so far:
%s

User: %s

Reply in 1-2 sentences asking them to restate what they need, mentioning you
can track marks and grades or just listen.`, memory.Render(history), text)
}
