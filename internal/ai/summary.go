// Package ai drafts case discussion summaries with Gemini. The draft is
// a starting point for the presenting clinician, never auto-submitted.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/oncolane/caseboard/internal/models"
	"google.golang.org/api/option"
)

// Summarizer wraps a Gemini model for case summary drafts
type Summarizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewSummarizer creates a Gemini-backed summarizer
func NewSummarizer(ctx context.Context, apiKey, modelName string) (*Summarizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &Summarizer{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Close closes the client connection
func (s *Summarizer) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// DraftDiscussionSummary asks the model for a short discussion draft
// based on the submitted case metadata and document list. Document
// contents are deliberately not sent: they were anonymized for human
// review, not cleared for a third-party API.
func (s *Summarizer) DraftDiscussionSummary(ctx context.Context, rec *models.CaseRecord) (string, error) {
	prompt := buildPrompt(rec)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var fullText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}

	return fullText, nil
}

func buildPrompt(rec *models.CaseRecord) string {
	var b strings.Builder
	b.WriteString("Draft a short, neutral discussion opener for a tumor board case presentation.\n")
	b.WriteString("Do not invent clinical findings; only restructure the given information.\n\n")
	fmt.Fprintf(&b, "Case name: %s\n", rec.CaseName)
	fmt.Fprintf(&b, "Cancer type: %s\n", rec.CancerType)
	fmt.Fprintf(&b, "Patient: %d-year-old, sex %s\n", rec.PatientAge, rec.PatientSex)
	if rec.Notes != "" {
		fmt.Fprintf(&b, "Clinician notes: %s\n", rec.Notes)
	}
	if len(rec.Attachments) > 0 {
		b.WriteString("Reviewed documents:\n")
		for _, att := range rec.Attachments {
			fmt.Fprintf(&b, "- %s (%s)\n", att.FileName, att.FileType)
		}
	}
	return b.String()
}
