// @title           Invoice RAG API
// @version         1.0
// @description     Spreadsheet ingestion and retrieval augmented chat over invoice data.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   r.castellanos.dev@gmail.com

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
	"syscall"

	"github.com/rcastellanos/InvoiceRAG/internal/config"
	"github.com/rcastellanos/InvoiceRAG/internal/data/store"
	"github.com/rcastellanos/InvoiceRAG/internal/handlers"
	"github.com/rcastellanos/InvoiceRAG/internal/rag"
	"github.com/rcastellanos/InvoiceRAG/internal/rag/embedding/googleEmbedding"
	"github.com/rcastellanos/InvoiceRAG/internal/rag/llm/openaiLLM"
	"github.com/rcastellanos/InvoiceRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/rcastellanos/InvoiceRAG/internal/server"
	"github.com/rcastellanos/InvoiceRAG/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	vectorDB, err := qdrantDB.NewClient(serviceContext)
	if err != nil {
		logger.Error("Qdrant is unreachable. Shutting down.", "error", err)
		return
	}
	embeddingService, err := googleEmbedding.NewGoogleEmbedder(serviceContext, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey())
	if err != nil {
		logger.Error("Embedding service failed to initialize. Shutting down.", "error", err)
		return
	}
	llmProvider := openaiLLM.NewClient(config.LLMEndpointAddr(), config.LLMApiKey, config.LLMModel())

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService)

	datasetStore := store.NewRedisDatasetStore(serviceContext)
	if datasetStore == nil {
		logger.Error("Redis store is offline, dataset records will not survive restarts")
		datasetStore = store.NewInMemoryDatasetStore()
	}

	handlerSet := server.Handlers{
		Files: handlers.NewFileHandler(ragService, datasetStore),
		Chat:  handlers.NewChatSocketHandler(ragService),
	}

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, handlerSet)

	<-stopExecution
	logger.Info("Server stopped")
}
