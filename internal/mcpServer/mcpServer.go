package mcpServer

import (
	"context"
	"net/http"
	"sync"

	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	"github.com/akolanti/DocQueryAPI/internal/rag/embedding"
	"github.com/akolanti/DocQueryAPI/internal/rag/vectorDB"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverVersion = "0.1.0"

// SearchInput is the input schema for the search_documents tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question to search the uploaded documents with"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// SearchOutput is the output schema for the search_documents tool.
type SearchOutput struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// SearchResult is one retrieved chunk with its citation.
type SearchResult struct {
	DocumentId   string  `json:"document_id"`
	DocumentName string  `json:"document_name"`
	Page         int     `json:"page"`
	ChunkOrder   int     `json:"chunk_order"`
	Score        float32 `json:"score"`
	Content      string  `json:"content"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []commonModels.Document `json:"documents"`
	Count     int                     `json:"count"`
}

type toolServer struct {
	embedder embedding.Embedder
	vectorDB vectorDB.DataProcessor
	registry commonModels.DocumentRegistry
}

var logger *logger_i.Logger
var handler http.Handler
var once sync.Once

// GetMCPHandler exposes retrieval over MCP so agent clients can search
// the same index the chat endpoint uses, without going through a job.
func GetMCPHandler(em embedding.Embedder, vector vectorDB.DataProcessor, registry commonModels.DocumentRegistry) http.Handler {
	once.Do(func() {
		logger = logger_i.NewLogger("MCP Server")

		ts := &toolServer{embedder: em, vectorDB: vector, registry: registry}

		server := mcp.NewServer(&mcp.Implementation{
			Name:    "doc-query-api",
			Version: serverVersion,
		}, nil)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "search_documents",
			Description: "Semantic search over the uploaded documents, returns matching chunks with citations",
		}, ts.handleSearch)

		mcp.AddTool(server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List the documents currently available for search",
		}, ts.handleListDocuments)

		handler = mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return server
		}, nil)
		logger.Info("MCP handler created")
	})
	return handler
}

func (ts *toolServer) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	topK := uint64(input.TopK)
	if input.TopK <= 0 {
		topK = config.RetrievalTopK
	}

	queryVector, err := ts.embedder.GetEmbedding(ctx, input.Query)
	if err != nil {
		logger.Error("search_documents embedding failed", "error", err)
		return nil, SearchOutput{}, err
	}

	matches, err := ts.vectorDB.Search(ctx, queryVector, topK)
	if err != nil {
		logger.Error("search_documents vector search failed", "error", err)
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResult, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		output.Results[i] = SearchResult{
			DocumentId:   m.Citation.DocumentId,
			DocumentName: m.Citation.DocumentName,
			Page:         m.Citation.Page,
			ChunkOrder:   m.Citation.ChunkOrder,
			Score:        m.Score,
			Content:      m.Content,
		}
	}
	return nil, output, nil
}

func (ts *toolServer) handleListDocuments(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := ts.registry.ListDocuments(ctx)
	if err != nil {
		logger.Error("list_documents failed", "error", err)
		return nil, ListDocumentsOutput{}, err
	}
	return nil, ListDocumentsOutput{Documents: docs, Count: len(docs)}, nil
}
