package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"research-chat/internal/logger"
)

const SYSTEM_INSTRUCTION = `
You are a clinical research assistant. You receive a clinical question and,
optionally, an analysis template written by the user.
Analyze the question using current clinical research evidence and answer in plain text:
- Start with a short direct answer.
- Then list the key findings, each with the type of study it comes from.
- Close with limitations and open questions.
If a template is provided, follow its structure and focus instead of the default layout.
Do not invent citations. Do not wrap the response in a markdown code block.
`

const SAMPLE_CASE_INSTRUCTION = `
Write one realistic, fully de-identified sample clinical case (4-6 sentences) that a
clinician could paste into a research assistant as a question. Include age, sex,
presentation, relevant history and the specific clinical question. Respond with the case text only.
`

// generator is the part of *genai.Models the analyzer uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiAnalyzer answers analysis and sample-case requests with Gemini.
type GeminiAnalyzer struct {
	models    generator
	modelName string
}

func NewGeminiAnalyzer(ctx context.Context, apiKey, modelName string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAnalyzer{models: client.Models, modelName: modelName}, nil
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, query, templateContent string) (string, error) {
	return a.generate(ctx, SYSTEM_INSTRUCTION, buildPrompt(query, templateContent))
}

func (a *GeminiAnalyzer) GenerateSampleCase(ctx context.Context) (string, error) {
	return a.generate(ctx, SAMPLE_CASE_INSTRUCTION, "Generate a sample case.")
}

func (a *GeminiAnalyzer) generate(ctx context.Context, instruction, prompt string) (string, error) {
	startTime := time.Now()

	result, err := a.models.GenerateContent(
		ctx,
		a.modelName,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		},
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", fmt.Errorf("gemini returned no result")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	fields := logger.Fields{
		"model_name": a.modelName,
		"latency_ms": time.Since(startTime).Milliseconds(),
	}
	if result.UsageMetadata != nil {
		fields["input_tokens"] = result.UsageMetadata.PromptTokenCount
		fields["output_tokens"] = result.UsageMetadata.CandidatesTokenCount
		fields["total_tokens"] = result.UsageMetadata.TotalTokenCount
	}
	logger.DebugWithFields("gemini generate success", fields)
	return text, nil
}

func buildPrompt(query, templateContent string) string {
	if strings.TrimSpace(templateContent) == "" {
		return query
	}
	return fmt.Sprintf("Analysis template:\n%s\n\nClinical question:\n%s", templateContent, query)
}
