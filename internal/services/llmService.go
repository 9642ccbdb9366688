package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

var apiKey = os.Getenv("API_KEY")

// LLMSummarizeTool produces a concise directory description for a catalog
// tool from its name, website and the current (possibly stale) description.
func LLMSummarizeTool(name, website, currentDescription string) (string, error) {
	if apiKey == "" {
		return "", errors.New("missing api key")
	}

	llm, err := googleai.New(context.Background(), googleai.WithAPIKey(apiKey), googleai.WithDefaultModel("gemini-2.5-flash"))
	if err != nil {
		return "", fmt.Errorf("failed to create Google AI LLM: %w", err)
	}

	prompt := fmt.Sprintf(
		"You are writing listings for an AI tool directory. Write a concise, "+
			"factual one-paragraph description of the tool below. Plain text only, "+
			"no markup, no marketing superlatives.\n\nName: %s\nWebsite: %s\nCurrent description: %s",
		name,
		website,
		currentDescription,
	)

	summary, err := llms.GenerateFromSinglePrompt(context.Background(), llm, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate description from LLM: %w", err)
	}

	return summary, nil
}
