package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sabitsky/hearitage/internal/jsonx"
	"github.com/sabitsky/hearitage/internal/model"
	"github.com/sabitsky/hearitage/pkg/claude"
)

const draftSystemPrompt = `You are an art historian. For the painting given, propose short factual statements a museum label would carry. Respond with exactly one JSON object, no other text:
{"facts": ["<short fact>", ...], "summary_addition": "<one or two sentences adding context>"}
Propose at most five facts. Every statement must be about this exact painting. Do not restate the title or artist as a fact.`

const draftUserPrompt = `Painting: %s
Artist: %s
Date: %s
Style: %s`

const draftMaxTokens = 512

// generateDraft asks the smaller model for candidate enrichment facts about
// an already-identified subject. The draft is untrusted until validated.
func generateDraft(ctx context.Context, client claude.Client, modelName string, subject model.Attribution, timeout time.Duration) (*model.FactsDraft, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := client.CreateMessage(callCtx, claude.MessageRequest{
		Model:     modelName,
		MaxTokens: draftMaxTokens,
		System:    draftSystemPrompt,
		Messages: []claude.Message{{
			Role: "user",
			Text: fmt.Sprintf(draftUserPrompt, subject.Title, subject.Creator, subject.DateLabel, subject.StyleLabel),
		}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: facts draft call")
	}

	var draft model.FactsDraft
	if err := jsonx.Unmarshal(resp.Text(), &draft); err != nil {
		return nil, eris.Wrap(err, "pipeline: parse facts draft")
	}
	return &draft, nil
}
