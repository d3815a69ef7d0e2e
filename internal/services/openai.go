package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

const DefaultOpenAIModel = "gpt-4o-mini"

type openAIService struct {
	client *openai.Client
	model  shared.ResponsesModel
}

// NewOpenAIService builds a SummaryModel backed by the Responses API.
func NewOpenAIService(apiKey, model string, opts ...option.RequestOption) (SummaryModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is empty")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &openAIService{client: &client, model: shared.ResponsesModel(model)}, nil
}

func (o *openAIService) Name() string {
	return string(o.model)
}

// Summarize implements SummaryModel.
func (o *openAIService) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	resp, err := o.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           o.model,
		Temperature:     openai.Float(0),
		MaxOutputTokens: openai.Int(int64(maxLength * 2)),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(summaryInstruction(maxLength, minLength), responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("call OpenAI: %w", err)
	}

	output := strings.TrimSpace(resp.OutputText())
	if output == "" {
		return "", errors.New("model returned an empty response")
	}
	return output, nil
}
