package openaiLLM

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/customHttpClient"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/rag/llm"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		newOpenAIClient(modelName, apikey)
	})

	if openaiClient == nil {
		return nil
	}
	return &llmClient{client: openaiClient.client, modelName: openaiClient.modelName}
}

func newOpenAIClient(modelName string, apikey string) {
	if apikey == "" {
		logger.Error("OPENAI_API_KEY is not set")
		return
	}
	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.PooledClient()),
	)
	openaiClient = &llmClient{client: c, modelName: modelName}
	logger.Debug("OpenAI " + modelName + " client created")
	logger.Info("OpenAI client created")
}

func (c *llmClient) Generate(ctx context.Context, userQuery string, matches []commonModels.RetrievedChunk, messageHistory []string) (llm.Answer, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	userPrompt := llm.BuildUserPrompt(userQuery, matches, messageHistory)

	result, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(config.ModelContext),
			openai.UserMessage(userPrompt),
		},
		Model:       c.modelName,
		Temperature: openai.Float(config.ModelTemperature),
	})
	if err != nil {
		log.Error("OpenAI completion failed", "error", err)
		return llm.Answer{}, err
	}
	if len(result.Choices) == 0 {
		return llm.Answer{}, errors.New("openai returned no choices")
	}

	return llm.ParseAnswer(result.Choices[0].Message.Content), nil
}
