package commonModels

import (
	"context"
	"time"
)

type Document struct {
	Id          string    `json:"source_doc_id"`
	Name        string    `json:"doc_name"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ContentType DocType   `json:"content_type"`
}

// DocChunk is a contiguous span of extracted text sized for embedding.
// Immutable once created, it always references the document it came from.
type DocChunk struct {
	Doc            Document
	ChunkId        string `json:"chunk_id"`
	Chunk          string `json:"content"`
	PageNum        int    `json:"page_num"`
	ChunkPageOrder int    `json:"chunk_order"`
	StartOffset    int    `json:"start_offset"`
	EndOffset      int    `json:"end_offset"`
}

// Citation points a chat answer back at a retrieved chunk.
type Citation struct {
	DocumentId   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	Page         int    `json:"page"`
	ChunkOrder   int    `json:"chunk_order"`
	ChunkId      string `json:"chunk_id"`
}

// RetrievedChunk is a search hit: chunk text plus its citation and score.
type RetrievedChunk struct {
	Citation Citation `json:"citation"`
	Content  string   `json:"content"`
	Score    float32  `json:"score"`
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var IMAGE DocType = "IMAGE"
var ERR DocType = "ERROR"

// DocumentRegistry tracks every uploaded document and enforces the
// MAX_DOCUMENTS cap before an ingest job is queued.
type DocumentRegistry interface {
	TryRegister(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, docId string) (Document, bool)
	ListDocuments(ctx context.Context) ([]Document, error)
	DocumentCount(ctx context.Context) (int64, error)
}
