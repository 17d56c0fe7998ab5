package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	ChatId    string            `json:"chat_id" example:"chat_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type CitationResponse struct {
	Document   string `json:"document" example:"report.pdf"`
	Page       int    `json:"page" example:"3"`
	ChunkOrder int    `json:"chunk_order" example:"1"`
	ChunkId    string `json:"chunk_id"`
}

type RAGResponse struct {
	Question  string             `json:"question"`
	Answer    string             `json:"answer"`
	Citations []CitationResponse `json:"citations"`
	Themes    []string           `json:"themes,omitempty"`
}

type IngestResult struct {
	DocumentId    string `json:"document_id"`
	DocumentName  string `json:"document_name"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

type Result struct {
	Status              string        `json:"status"`
	RAGExternalResponse *RAGResponse  `json:"rag_response,omitempty"`
	IngestResult        *IngestResult `json:"ingest_result,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Version string `json:"version" example:"1.0.0"`
}

type DocumentInfo struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type DocumentListResponse struct {
	Documents []DocumentInfo `json:"documents"`
	Count     int64          `json:"count"`
	Limit     int64          `json:"limit"`
}

// requests---------------------

type ChatRequest struct {
	Message string `json:"message" validate:"required" `
	ChatID  string `json:"chatID,omitempty" `
}
type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
