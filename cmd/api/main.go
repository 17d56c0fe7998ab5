// @title           Document Query RAG API
// @version         1.0
// @description     Upload documents and ask questions against them asynchronously
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/DocQueryAPI/internal/config"
	"github.com/akolanti/DocQueryAPI/internal/data/store"
	"github.com/akolanti/DocQueryAPI/internal/domain/commonModels"
	jobmodel "github.com/akolanti/DocQueryAPI/internal/domain/jobModel"
	"github.com/akolanti/DocQueryAPI/internal/handlers"
	"github.com/akolanti/DocQueryAPI/internal/job"
	"github.com/akolanti/DocQueryAPI/internal/mcpServer"
	"github.com/akolanti/DocQueryAPI/internal/rag"
	"github.com/akolanti/DocQueryAPI/internal/rag/embedding"
	"github.com/akolanti/DocQueryAPI/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/DocQueryAPI/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/DocQueryAPI/internal/rag/llm"
	"github.com/akolanti/DocQueryAPI/internal/rag/llm/gemini"
	"github.com/akolanti/DocQueryAPI/internal/rag/llm/openaiLLM"
	"github.com/akolanti/DocQueryAPI/internal/rag/ocr"
	"github.com/akolanti/DocQueryAPI/internal/rag/ocr/geminiVision"
	"github.com/akolanti/DocQueryAPI/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/DocQueryAPI/internal/server"
	"github.com/akolanti/DocQueryAPI/internal/worker"
	"github.com/akolanti/DocQueryAPI/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	config.LoadDotEnv()
	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and stores
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	jobStore := store.GetRedisJobStore(serviceContext)
	messageStore := store.GetRedisMessageStore(serviceContext)
	docRegistry := store.GetRedisDocumentRegistry(serviceContext)

	if jobStore == nil || messageStore == nil || docRegistry == nil {
		logger.Error("Redis stores are offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.MessageStore = store.InitMessageStore()
		serviceConfig.DocRegistry = store.InitInMemoryDocumentRegistry(config.MaxDocuments())
	} else {
		serviceConfig.JobStore = jobStore
		serviceConfig.MessageStore = messageStore
		serviceConfig.DocRegistry = docRegistry
	}
	service := job.InitJobService(serviceConfig)

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)

	var embeddingService embedding.Embedder
	var llmProvider llm.Provider
	switch config.ModelProvider() {
	case config.ProviderGemini:
		embeddingService = googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey())
	default:
		embeddingService = openaiEmbedding.GetOpenAIEmbeddingClient(serviceContext, config.OpenAIEmbeddingModel, config.OpenAIKey())
		llmProvider = openaiLLM.GetOpenAIClient(serviceContext, config.OpenAIChatModel, config.OpenAIKey())
	}

	// Image uploads need a vision backend, everything else works
	// without one.
	var imageReader ocr.ImageReader
	if key := config.GoogleAPIKey(); key != "" {
		imageReader = geminiVision.GetVisionClient(serviceContext, key)
	} else {
		logger.Info("No vision backend configured, image uploads disabled")
	}

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	var registry commonModels.DocumentRegistry = serviceConfig.DocRegistry
	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, imageReader, registry)

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	mcpHandler := mcpServer.GetMCPHandler(embeddingService, vectorDB, registry)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, mcpHandler)

	<-stopExecution
	logger.Info("Server stopped")
}
