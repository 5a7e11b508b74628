package recognize

import (
	"fmt"

	"github.com/sabitsky/hearitage/internal/model"
)

const identifySystemPrompt = `You are an expert art historian identifying paintings from photographs. Examine the image and respond with exactly one JSON object, no other text:
{"title": "<painting title>", "creator": "<artist name>", "date": "<year or period>", "location": "<museum or collection holding it>", "style": "<art movement or style>", "confidence": "high|medium|low", "reasoning": "<why you identified it this way, two sentences max>", "summary": "<short paragraph about the painting>"}
Always commit to your single best guess for title and creator, even under uncertainty - never answer "unknown" for those two fields. Use "unknown" only for date, location, or style you cannot determine. Set confidence to how certain you are of the title/creator pair.`

const identifyUserPrompt = `Identify this painting.`

const refineUserPrompt = `Identify this painting. A first look produced this attribution:

title: %s
creator: %s
date: %s
style: %s
reasoning: %s

Look again carefully. Commit to a refined best guess - confirm the attribution above if it holds up, or correct it. Respond with the same JSON object format.`

func refinePrompt(first model.Attribution) string {
	return fmt.Sprintf(refineUserPrompt, first.Title, first.Creator, first.DateLabel, first.StyleLabel, first.Reasoning)
}
