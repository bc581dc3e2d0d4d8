package bootstrap

import (
	"context"
	"log"

	"ai-videosearch-be/internal/config"
	"ai-videosearch-be/internal/controller"
	"ai-videosearch-be/internal/pkg/logger"
	"ai-videosearch-be/internal/repository/unitofwork"
	"ai-videosearch-be/internal/service"
	"ai-videosearch-be/pkg/embedding"
	"ai-videosearch-be/pkg/events"
	"ai-videosearch-be/pkg/llm/factory"
	pktNats "ai-videosearch-be/pkg/nats"
	"ai-videosearch-be/pkg/rag/answer"
	"ai-videosearch-be/pkg/rag/compose"
	"ai-videosearch-be/pkg/rag/retrieval"
	"ai-videosearch-be/pkg/rag/similarity"
	"ai-videosearch-be/pkg/rerank"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SearchController     controller.ISearchController
	FeedbackController   controller.IFeedbackController
	CollectionController controller.ICollectionController
	VideoController      controller.IVideoController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	VideoService    service.IVideoService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS; the API works without it, domain events just stay local.
	var eventPublisher events.Publisher = events.NoopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}

	// Redis, backing the embedding cache.
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 3. Model Providers
	var embeddingBackend embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingBackend = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingBackend = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: GEMINI (%s)", cfg.Ai.EmbeddingModel)
	}
	embeddingProvider := embedding.NewCachedProvider(embeddingBackend, cfg.Ai.EmbeddingModel, rdb)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	reranker := rerank.NewHTTPReranker(cfg.Ai.RerankerBaseURL, cfg.Ai.RerankerModel)

	// 4. Pipeline Components
	// The repository views here share the container-level db; per-request
	// transactional work still goes through the UoW factory.
	sharedUow := uowFactory.NewUnitOfWork(context.Background())
	retriever := retrieval.NewRetriever(
		embeddingProvider,
		sharedUow.TranscriptRepository(),
		sharedUow.VideoRepository(),
		reranker,
		cfg.Retrieval,
		sysLogger,
	)
	matcher := similarity.NewMatcher(
		embeddingProvider,
		sharedUow.FeedbackRepository(),
		sharedUow.CollectionRepository(),
		cfg.Retrieval,
		sysLogger,
	)
	composer := compose.NewComposer(
		sharedUow.VideoRepository(),
		sharedUow.TranscriptRepository(),
		sharedUow.FeedbackRepository(),
		sysLogger,
	)
	assembler := answer.NewAssembler(llmProvider, sysLogger)

	// 5. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Ai.EmbedBackfillTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.EmbedBackfillTopic,
		uowFactory,
		embeddingProvider,
		eventPublisher,
		sysLogger,
	)

	searchService := service.NewSearchService(uowFactory, retriever, matcher, composer, assembler, sysLogger)
	feedbackService := service.NewFeedbackService(uowFactory, embeddingProvider, eventPublisher, sysLogger)
	collectionService := service.NewCollectionService(uowFactory, embeddingProvider, eventPublisher, sysLogger)
	videoService := service.NewVideoService(uowFactory, publisherService, sysLogger)

	// 6. Controllers
	return &Container{
		SearchController:     controller.NewSearchController(searchService),
		FeedbackController:   controller.NewFeedbackController(feedbackService),
		CollectionController: controller.NewCollectionController(collectionService),
		VideoController:      controller.NewVideoController(videoService),

		ConsumerService: consumerService,
		VideoService:    videoService,

		Logger: sysLogger,
	}
}
