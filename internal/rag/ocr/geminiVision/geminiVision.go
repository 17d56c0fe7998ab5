package geminiVision

import (
	"context"
	"sync"

	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/rag/ocr"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
	"google.golang.org/genai"
)

const visionPrompt = "Transcribe all text visible in this image. " +
	"Return only the transcribed text, preserving line breaks. " +
	"If the image contains no text, return an empty response."

type visionClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiVision *visionClient
var once sync.Once

func GetVisionClient(ctx context.Context, apikey string) ocr.ImageReader {
	once.Do(func() {
		logger = logger_i.NewLogger("ocr_gemini")
		newVisionClient(ctx, apikey)
	})

	if geminiVision == nil {
		return nil
	}
	return geminiVision
}

func newVisionClient(ctx context.Context, apikey string) {

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini vision client:", "error", err)
	}
	if c != nil {
		geminiVision = &visionClient{client: c, modelName: config.GeminiVisionModel}
		logger.Info("Gemini vision client created")
	}

}

func (c *visionClient) ReadImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(visionPrompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, nil)
	if err != nil {
		log.Error("Gemini vision call failed", "error", err)
		return "", err
	}
	return result.Text(), nil
}
