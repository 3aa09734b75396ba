package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/chatrag/chatrag/agent"
	"github.com/chatrag/chatrag/api"
	"github.com/chatrag/chatrag/appconfig"
	"github.com/chatrag/chatrag/db"
	"github.com/chatrag/chatrag/llm"
	"github.com/chatrag/chatrag/memory"
	"github.com/chatrag/chatrag/retrieval"
	"go.uber.org/zap"
)

func main() {
	dotenv.LoadEnv()

	// load config file
	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	ccfgg.ApplyDefaults()

	mongoClient := odm.ProvideMongoClient()

	if err := db.InitChatRagDB(context.Background(), mongoClient, ccfgg.DatabaseName); err != nil {
		logger.Fatal("Failed to ensure indexes", zap.Error(err))
	}

	llmClient, embedder := provideLLM(ccfgg)

	store := memory.NewMongoStore(mongoClient, ccfgg.DatabaseName)
	sessions := memory.NewConversationManager(store)
	retriever := retrieval.NewMongoRetriever(mongoClient, ccfgg.DatabaseName, embedder)
	generator := agent.NewLLMGenerator(llmClient, ccfgg.ChatModel)
	orchestrator := agent.NewOrchestrator(retriever, generator, sessions, ccfgg.MaxClarifications)
	useCase := agent.NewProcessConversationUseCase(orchestrator)
	handler := api.NewHandler(useCase, ccfgg.ChatModel)

	srv := &http.Server{
		Addr:              ":" + ccfgg.HTTPPort,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx := getCancellableContext()
	go func() {
		// catch SIGINT -> drain in-flight turns, then exit
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Starting ChatRAG server",
		zap.String("port", ccfgg.HTTPPort),
		zap.String("backend", ccfgg.GeneratorBackend),
		zap.String("model", ccfgg.ChatModel))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func provideLLM(ccfgg *appconfig.AppConfig) (llm.LLMClient, llm.Embedder) {
	switch ccfgg.GeneratorBackend {
	case "anthropic":
		// Anthropic has no embedding API; retrieval stays on OpenAI embeddings.
		return llm.NewAnthropicClient(ccfgg.ChatModel), llm.NewOpenAIEmbedder(ccfgg.EmbeddingModel)
	case "ollama":
		return llm.NewOllamaClient(ccfgg.ChatModel), llm.NewOllamaEmbedder(ccfgg.EmbeddingModel)
	default:
		return llm.NewOpenAIClient(ccfgg.ChatModel), llm.NewOpenAIEmbedder(ccfgg.EmbeddingModel)
	}
}

func getCancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
	}()

	return ctx
}
