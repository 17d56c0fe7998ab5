package ingest

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/domain/jobModel"
	"github.com/akolanti/DocQueryAPI/internal/metrics"
	"github.com/akolanti/DocQueryAPI/internal/rag/embedding"
	"github.com/akolanti/DocQueryAPI/internal/rag/ocr"
	"github.com/akolanti/DocQueryAPI/internal/rag/vectorDB"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger *logger_i.Logger

func ProcessDocumentIngestion(ctx context.Context, job jobModel.Job, e embedding.Embedder, vectorDatabase vectorDB.DataProcessor, registry commonModels.DocumentRegistry, reader ocr.ImageReader) jobModel.Job {
	logger = logger_i.NewLogger("Document Ingestion ")
	logger.With("traceId", ctx.Value(config.TRACE_ID_KEY).(string))

	//ideally return batches of upserts
	docName := job.JobPayload.IngestFileName
	docPath := job.JobPayload.IngestURL

	logger.Debug("Processing document", "filename", docName, "path", docPath)

	job.CurrentStep = jobModel.IngestExtract
	err := vectorDatabase.CreateCollection(ctx, config.DocumentCollectionName)
	if err != nil {
		logger.Error("Error creating collection", "error", err)
		job.Status = jobModel.JobStatusError
		return job
	}

	docType := getDocType(docPath)
	logger.Debug("Processing document", "type", docType)
	if docType == commonModels.ERR {
		logger.Error("Unrecognized document type", "path", docPath)
		job.Status = jobModel.JobStatusError
		return job
	}

	doc, found := registry.GetDocument(ctx, job.JobPayload.IngestDocId)
	if !found {
		// Upload cleared the registry entry underneath us, keep going
		// with what the job carries so the chunks still get a citation.
		doc = commonModels.Document{
			Id:          job.JobPayload.IngestDocId,
			Name:        docName,
			UploadedAt:  time.Now(),
			ContentType: docType,
		}
	}

	rawPages, err := extractText(ctx, docPath, docType, reader)
	if err != nil {
		logger.Error("Error processing document", "error", err)
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Error extracting document content"
		return job
	}

	persistProcessedText(doc.Id, rawPages)

	job.CurrentStep = jobModel.IngestProcessing
	logger.Debug("Processing document", "Number of raw pages: ", len(rawPages))
	chunks := PrepareChunks(rawPages, doc)

	logger.Debug("Processing document", "Number of chunks: ", len(chunks))
	err = BatchIngest(ctx, chunks, vectorDatabase, e)

	if err != nil {
		job.Status = jobModel.JobStatusError
		logger.Error("Error processing document", "error", err)
		return job
	}
	metrics.AddChunksIndexed(len(chunks))
	job.JobPayload.ChunksIndexed = len(chunks)

	err = os.Remove(job.JobPayload.IngestURL)
	if err != nil {
		logger.Error("Error removing file", "error", err)
	}
	job.Status = jobModel.JobStatusComplete
	return job
}

// persistProcessedText keeps a plaintext copy of the extraction so a
// reingest after a vector store wipe can skip the parser and the OCR
// call. Failures only cost us that shortcut, so they are logged and
// swallowed.
func persistProcessedText(docId string, pages []rawPage) {
	if err := os.MkdirAll(config.ProcessedTextDirName, 0755); err != nil {
		logger.Error("Error creating processed text dir", "error", err)
		return
	}

	var content []byte
	for _, p := range pages {
		content = append(content, p.Content...)
		content = append(content, '\n')
	}

	target := filepath.Join(config.ProcessedTextDirName, docId+".txt")
	if err := os.WriteFile(target, content, 0644); err != nil {
		logger.Error("Error writing processed text", "error", err)
	}
}
