package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/weaveai/weave-cli/internal/core/domain"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
	"github.com/weaveai/weave-cli/internal/logger"
)

// gapDamping scales confidence down when the synthesizer reports
// missing information.
const gapDamping = 0.65

// noEvidenceAnswer is returned without calling the LLM when retrieval
// produced nothing: an honest "don't know" instead of a fabrication.
const noEvidenceAnswer = "No relevant documents were found in the knowledge base for this question."

// synthesisPayload is the JSON shape the synthesis prompt demands.
type synthesisPayload struct {
	Answer      string   `json:"answer"`
	MissingInfo []string `json:"missing_info"`
	Suggestions []string `json:"enrichment_suggestions"`
}

// synthesize builds the grounding prompt from evidence, requests a
// strict-JSON completion and validates it into a domain.Answer.
func (s *QueryService) synthesize(
	ctx context.Context, question string, evidence []domain.QueryResult,
) (*domain.Answer, error) {
	logger.Section("Synthesis")

	if len(evidence) == 0 {
		logger.Debug("No evidence retrieved, skipping LLM call")
		return &domain.Answer{
			Text:        noEvidenceAnswer,
			Confidence:  0,
			MissingInfo: []string{"any indexed content related to the question"},
			Suggestions: []string{question},
			Sources:     []domain.QueryResult{},
		}, nil
	}

	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	systemPrompt, err := s.prompts.Load(driven.PromptSynthesis)
	if err != nil {
		return nil, fmt.Errorf("load synthesis prompt: %w", err)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildGroundingPrompt(question, evidence)},
	}

	logger.Debug("Requesting synthesis from %s (%d evidence chunks)", s.llm.ModelName(), len(evidence))
	reply, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   1024,
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	payload, err := parseSynthesisReply(reply)
	if err != nil {
		return nil, err
	}

	answer := &domain.Answer{
		Text:        payload.Answer,
		Confidence:  confidence(evidence, len(payload.MissingInfo) > 0),
		MissingInfo: payload.MissingInfo,
		Suggestions: payload.Suggestions,
		Sources:     evidence,
	}
	answer.CapGapItems()

	logger.Info("Answer synthesised: confidence=%.2f, gaps=%d", answer.Confidence, len(answer.MissingInfo))
	return answer, nil
}

// buildGroundingPrompt renders evidence as document-labelled context
// blocks followed by the question.
func buildGroundingPrompt(question string, evidence []domain.QueryResult) string {
	var b strings.Builder

	b.WriteString("Context documents:\n\n")
	for _, result := range evidence {
		b.WriteString("Document: ")
		b.WriteString(result.Filename)
		b.WriteString("\nContent: ")
		b.WriteString(result.Content)
		b.WriteString("\n---\n")
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)

	return b.String()
}

// parseSynthesisReply decodes and validates the model's JSON reply.
// Anything that fails validation is a malformed-output synthesis error,
// never a silently patched answer.
func parseSynthesisReply(reply string) (*synthesisPayload, error) {
	var payload synthesisPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &payload); err != nil {
		return nil, domain.NewSynthesisError(domain.SynthesisMalformedOutput,
			fmt.Errorf("decode synthesis reply: %w", err))
	}

	if strings.TrimSpace(payload.Answer) == "" {
		return nil, domain.NewSynthesisError(domain.SynthesisMalformedOutput,
			fmt.Errorf("synthesis reply has empty answer"))
	}

	return &payload, nil
}

// confidence estimates evidence sufficiency: the mean evidence
// similarity, damped when the synthesizer reported gaps. Monotone in
// evidence quality and zero without evidence.
func confidence(evidence []domain.QueryResult, hasGaps bool) float64 {
	if len(evidence) == 0 {
		return 0
	}

	var sum float64
	for _, result := range evidence {
		sum += result.Similarity
	}
	c := sum / float64(len(evidence))

	if hasGaps {
		c *= gapDamping
	}

	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
