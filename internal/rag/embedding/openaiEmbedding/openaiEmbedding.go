package openaiEmbedding

import (
	"context"
	"errors"
	"sync"

	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/customHttpClient"
	"github.com/akolanti/DocQueryAPI/internal/rag/embedding"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension = int64(config.EmbeddingOutputDimensionality)

type client struct {
	openAi openai.Client
	model  string
}

func newOpenAIEmbedder(modelName string, apikey string) {
	if apikey == "" {
		logger.Error("OPENAI_API_KEY is not set")
		return
	}
	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.PooledClient()),
	)
	embeddingClient = &client{
		openAi: c,
		model:  modelName,
	}
	logger.Debug("OpenAI Embedding model name: " + modelName)
	logger.Info("OpenAI Embedding client created")
}

func GetOpenAIEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		newOpenAIEmbedder(modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{openAi: embeddingClient.openAi, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	log.Debug("embedding query")

	res, err := c.doCall(ctx, []string{query})
	if err != nil {
		log.Error("Error getting Embedding from OpenAI", "error", err.Error())
		return nil, err
	}
	if len(res.Data) == 0 {
		return nil, errors.New("openai returned no embedding")
	}
	return toFloat32(res.Data[0].Embedding), nil
}

// BatchEmbedding sends all chunks in one request. OpenAI accepts up to
// 2048 inputs per call which dwarfs our ingest batch size, so huge data
// sets need no separate path here.
func (c *client) BatchEmbedding(ctx context.Context, chunks []string, isHugeDataSet bool) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	res, err := c.doCall(ctx, chunks)
	if err != nil {
		log.Error("Error getting batch Embeddings from OpenAI", "error", err.Error())
		return nil, err
	}
	if len(res.Data) != len(chunks) {
		return nil, errors.New("openai returned a partial embedding batch")
	}

	//responses can arrive out of order, Index maps them back
	results := make([][]float32, len(chunks))
	for _, d := range res.Data {
		results[d.Index] = toFloat32(d.Embedding)
	}
	return results, nil
}

func (c *client) doCall(ctx context.Context, inputs []string) (*openai.CreateEmbeddingResponse, error) {
	return c.openAi.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: inputs},
		Model:      c.model,
		Dimensions: openai.Int(dimension),
	})
}

func toFloat32(vector []float64) []float32 {
	out := make([]float32, len(vector))
	for i, v := range vector {
		out[i] = float32(v)
	}
	return out
}
