package service

import (
	"context"
	"fmt"
	"strings"

	"roomie/internal/model"
	"roomie/internal/utils"
)

// IntentClassifier maps a raw message onto the closed intent set
type IntentClassifier struct {
	completer    Completer
	systemPrompt string
}

// NewIntentClassifier creates a classifier whose prompt is rendered from model.Intents
func NewIntentClassifier(completer Completer) *IntentClassifier {
	return &IntentClassifier{
		completer:    completer,
		systemPrompt: buildClassifierPrompt(model.Intents),
	}
}

func buildClassifierPrompt(defs []model.IntentDefinition) string {
	var b strings.Builder
	b.WriteString("You are an intent classifier for Roomie, a platform for booking hotel rooms and other accommodations.\n")
	b.WriteString("Classify the user's question into exactly one of these categories:\n")
	for _, def := range defs {
		fmt.Fprintf(&b, "- %s: %s\n", def.Intent, def.Description)
	}
	b.WriteString("If the question fits none of them, answer \"unrecognized\".\n")
	b.WriteString("Respond with the category label only, no punctuation and no explanation.")
	return b.String()
}

// Classify returns the detected intent. A label outside the set yields
// model.IntentUnrecognized with a nil error; only a failed completion is an error.
func (c *IntentClassifier) Classify(ctx context.Context, message string) (model.Intent, error) {
	label, err := c.completer.Complete(ctx, []Message{
		{Role: RoleSystem, Content: c.systemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf("Classify the intent of this question: %q", message)},
	}, classifyParams)
	if err != nil {
		return model.IntentUnrecognized, fmt.Errorf("intent classification failed: %w", err)
	}

	intent, ok := model.ParseIntent(label)
	if !ok {
		utils.Debugf("🏷️ Unrecognized intent label: %q", label)
	}
	return intent, nil
}
