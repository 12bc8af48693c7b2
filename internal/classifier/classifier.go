// Package classifier maps a user message to one intent label using the
// language model. Classification is semantic: the model is instructed to
// separate first-person expressions of risk from narrative or fictional
// mentions of the same vocabulary, so no keyword matching happens here.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xaenox/study-buddy/internal/memory"
	"github.com/xaenox/study-buddy/internal/models"
	"github.com/xaenox/study-buddy/internal/oracle"
	"go.uber.org/zap"
)

type Classifier struct {
	oracle oracle.Oracle
	logger *zap.Logger
}

func New(o oracle.Oracle, logger *zap.Logger) *Classifier {
	return &Classifier{
		oracle: o,
		logger: logger,
	}
}

type intentResponse struct {
	Intent string `json:"intent"`
}

const promptTemplate = `You are the intent router of a student mentoring assistant.
Classify the latest user message into exactly one of these intents:

- "academic": marks, scores, grades, averages, subjects, report requests
- "positive": happy, proud, excited or otherwise upbeat feelings
- "negative": sad, stressed, anxious, lonely or otherwise low feelings
- "safety": the user expresses CURRENT personal intent or risk of suicide or self-harm, in first person
- "name_setup": the user is introducing themselves or changing their name ("my name is ...", "call me ...")
- "generic": anything else, including unclear messages

Critical rule for "safety": only classify as safety when the message itself
asserts present personal risk. Mentions of suicide or self-harm in fiction,
third person, questions, past stories or academic discussion are NOT safety;
classify those as negative or generic depending on tone.

Conversation so far:
%s

Latest user message: %s

Respond with a JSON object only, no other text:
{"intent": "<one of the labels above>"}`

// Classify returns exactly one intent for the message. It never fails: an
// oracle error, malformed output or unknown label degrades to generic so the
// message is still answered. Session state is never touched here.
func (c *Classifier) Classify(ctx context.Context, message string, history []models.Turn) models.Intent {
	prompt := fmt.Sprintf(promptTemplate, memory.Render(history), message)

	raw, err := c.oracle.Complete(ctx, prompt)
	if err != nil {
		c.logger.Error("Failed to classify message", zap.Error(err))
		return models.IntentGeneric
	}

	var parsed intentResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		c.logger.Error("Failed to parse classifier response",
			zap.Error(err),
			zap.String("response", raw))
		return models.IntentGeneric
	}

	intent, ok := models.ParseIntent(strings.ToLower(strings.TrimSpace(parsed.Intent)))
	if !ok {
		c.logger.Warn("Classifier returned unknown label",
			zap.String("label", parsed.Intent))
		return models.IntentGeneric
	}

	return intent
}

// stripCodeFence unwraps responses the model insists on fencing as
// ```json ... ```.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
