package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"tenderhub/insight-api/internal/logger"
)

const (
	DefaultGeminiModel      = "gemini-2.5-flash"
	DefaultGeminiEmbedModel = "text-embedding-004"
	GeminiEmbeddingSize     = 768

	maxEmbedChars    = 40000
	summaryMaxTokens = 4096
)

// Embedder turns text into a vector for the search index.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type GeminiService interface {
	SummaryModel
	Embedder
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	log        *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, model string, log *zap.Logger) (GeminiService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		modelName:  model,
		embedModel: DefaultGeminiEmbedModel,
		log:        logger.OrNop(log),
	}, nil
}

func (g *geminiService) Name() string {
	return g.modelName
}

// Summarize implements SummaryModel. Temperature is pinned to zero so the
// same tender always gets the same summary.
func (g *geminiService) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(text), summaryConfig(maxLength, minLength))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	if resp == nil {
		return "", errors.New("no response generated (nil response)")
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		return "", errors.New("summary truncated at the output token limit")
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", errors.New("no text content in response")
	}

	g.log.Debug("gemini summary generated", zap.String("summary", logger.TruncateForLog(out, 80)))
	return out, nil
}

// Embed implements Embedder.
func (g *geminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedChars {
		text = text[:maxEmbedChars]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, errors.New("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// summaryConfig leaves length control to the instruction. Thinking is off so
// the whole output budget goes to the summary.
func summaryConfig(maxLength, minLength int) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0),
		MaxOutputTokens:   summaryMaxTokens,
		ThinkingConfig:    &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
		SystemInstruction: genai.NewContentFromText(summaryInstruction(maxLength, minLength), genai.RoleUser),
	}
}

func summaryInstruction(maxLength, minLength int) string {
	return fmt.Sprintf(
		"Summarize the following public procurement tender in plain English. "+
			"Use between %d and %d words. Mention the buyer, the scope of work, the location and the closing date when they are stated. "+
			"Reply with the summary only.",
		minLength, maxLength,
	)
}
