package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/DocQueryAPI/internal/adapter/utils"
	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/rag/embedding"
	"github.com/akolanti/DocQueryAPI/internal/rag/ocr"
	"github.com/akolanti/DocQueryAPI/internal/rag/vectorDB"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
)

//splitter

type chunkSpan struct {
	Text  string
	Start int
	End   int
}

func splitTextIntoChunks(text string, limit int, overlap int) []chunkSpan {

	// If text is already small enough, just return it
	if len(text) <= limit {
		return []chunkSpan{{Text: text, Start: 0, End: len(text)}}
	}

	// Separators ordered from "best" to "worst" for semantic meaning
	separators := []string{"\n\n", "\n", ". ", " ", ""}

	var splitChar string
	found := false
	for _, s := range separators {
		if strings.Contains(text, s) {
			splitChar = s
			found = true
			break
		}
	}

	if !found {
		// Hard cut if no separator found (rare)
		return []chunkSpan{{Text: text[:limit], Start: 0, End: limit}}
	}

	parts := strings.Split(text, splitChar)
	var chunks []chunkSpan
	var currentChunk strings.Builder
	chunkStart := 0

	for _, part := range parts {
		// If adding the part exceeds the limit
		if currentChunk.Len()+len(part)+len(splitChar) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, chunkSpan{
					Text:  currentChunk.String(),
					Start: chunkStart,
					End:   chunkStart + currentChunk.Len(),
				})
			}

			// Handle overlap: start the next chunk with the end of the previous one
			// (Simple version: take last N chars)
			overlapContent := ""
			if currentChunk.Len() > overlap {
				overlapContent = currentChunk.String()[currentChunk.Len()-overlap:]
			}

			chunkStart = chunkStart + currentChunk.Len() - len(overlapContent)
			currentChunk.Reset()
			currentChunk.WriteString(overlapContent)
		}

		if currentChunk.Len() > 0 && splitChar != "" {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, chunkSpan{
			Text:  currentChunk.String(),
			Start: chunkStart,
			End:   chunkStart + currentChunk.Len(),
		})
	}

	return chunks
}

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".txt":
		return commonModels.TXT
	case ".docx", ".rtf", ".odt":
		return commonModels.DOCX
	case ".png", ".jpg", ".jpeg":
		return commonModels.IMAGE
	default:
		return commonModels.ERR
	}
}

func extractText(ctx context.Context, url string, contentType commonModels.DocType, reader ocr.ImageReader) ([]rawPage, error) {
	switch contentType {
	case commonModels.PDF:
		return extractPDF(url)
	case commonModels.DOCX, commonModels.TXT:
		return extractdocxTxtRtf(url)
	case commonModels.IMAGE:
		return extractImage(ctx, url, reader)

	default:
		return nil, fmt.Errorf("%w: %s", commonModels.ErrUnsupportedFormat, contentType)
	}
}

func PrepareChunks(pages []rawPage, doc commonModels.Document) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk

	for _, page := range pages {
		// 1. Split the text of this specific page
		spans := splitTextIntoChunks(page.Content, config.MaxChunkSize, config.ChunkOverlap)

		// 2. Map spans into your DocChunk struct
		for i, span := range spans {
			allChunks = append(allChunks, commonModels.DocChunk{
				Doc:            doc,
				ChunkId:        utils.GetNewUUID(),
				Chunk:          span.Text,
				PageNum:        page.Number,
				ChunkPageOrder: i,
				StartOffset:    span.Start,
				EndOffset:      span.End,
			})
		}
	}

	return allChunks
}

func BatchIngest(ctx context.Context, chunks []commonModels.DocChunk, vectorDB vectorDB.DataProcessor, embedder embedding.Embedder) error {
	logger = logger_i.NewLogger("Batch Ingestion ").With("traceId", ctx.Value(config.TRACE_ID_KEY))

	isHugeDataSet := false

	if len(chunks) > 1000000 { //we only want to do this if there is a huge document
		isHugeDataSet = true
		logger.Debug("Is a huge dataset")
	}

	for i := 0; i < len(chunks); i += config.EmbedBatchMax {
		end := i + config.EmbedBatchMax
		if end > len(chunks) {
			end = len(chunks)
		}

		//TODO:each batch can be its own go routine
		//but we will monitor the memory before introducing its own worker routine

		// Blank pages and text-free image transcripts produce empty
		// chunks with nothing to embed. They must leave the batch too,
		// or Qdrant gets more chunks than vectors.
		var currentBatch []commonModels.DocChunk
		var texts []string
		for _, c := range chunks[i:end] {
			if strings.TrimSpace(c.Chunk) == "" {
				continue
			}
			currentBatch = append(currentBatch, c)
			texts = append(texts, c.Chunk)
		}
		if len(currentBatch) == 0 {
			continue
		}

		logger.Debug("Staring embedding call", "current batch length ", len(currentBatch), "length of texts", len(texts))
		// vectors is [][]float32
		vectors, err := embedder.BatchEmbedding(ctx, texts, isHugeDataSet)
		if err != nil {
			return fmt.Errorf("%w: %v", commonModels.ErrEmbedding, err)
		}

		// 4. Upsert the batch to Qdrant
		err = vectorDB.UpsertBatch(ctx, config.DocumentCollectionName, currentBatch, vectors)
		if err != nil {
			return fmt.Errorf("upserting to qdrant failed: %w", err)
		}
	}

	return nil
}
