package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	text     string
	err      error
	model    string
	prompt   string
	instruct string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if config != nil && config.SystemInstruction != nil {
		f.instruct = config.SystemInstruction.Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestAnalyzePrompt(t *testing.T) {
	tests := []struct {
		name       string
		template   string
		wantPrompt string
	}{
		{"no template", "", "neuroblastoma treatment options"},
		{"blank template", "  ", "neuroblastoma treatment options"},
		{"template", "Focus on phase III trials.", "Analysis template:\nFocus on phase III trials.\n\nClinical question:\nneuroblastoma treatment options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeModels{text: " Risk-stratified therapy. "}
			a := &GeminiAnalyzer{models: fake, modelName: "gemini-test"}

			got, err := a.Analyze(context.Background(), "neuroblastoma treatment options", tt.template)
			require.NoError(t, err)
			assert.Equal(t, "Risk-stratified therapy.", got)
			assert.Equal(t, tt.wantPrompt, fake.prompt)
			assert.Equal(t, "gemini-test", fake.model)
			assert.Equal(t, SYSTEM_INSTRUCTION, fake.instruct)
		})
	}
}

func TestAnalyzeErrors(t *testing.T) {
	a := &GeminiAnalyzer{models: &fakeModels{err: errors.New("quota")}, modelName: "m"}
	_, err := a.Analyze(context.Background(), "q", "")
	assert.EqualError(t, err, "quota")

	a = &GeminiAnalyzer{models: &fakeModels{text: "   "}, modelName: "m"}
	_, err = a.Analyze(context.Background(), "q", "")
	assert.Error(t, err)
}

func TestGenerateSampleCase(t *testing.T) {
	fake := &fakeModels{text: "A 3-year-old presents with an abdominal mass."}
	a := &GeminiAnalyzer{models: fake, modelName: "m"}

	got, err := a.GenerateSampleCase(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A 3-year-old presents with an abdominal mass.", got)
	assert.Equal(t, SAMPLE_CASE_INSTRUCTION, fake.instruct)
}

func TestNewGeminiAnalyzerRequiresKey(t *testing.T) {
	_, err := NewGeminiAnalyzer(context.Background(), "", "m")
	assert.Error(t, err)
}
