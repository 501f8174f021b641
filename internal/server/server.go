package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/platefile/backend/config"
	"github.com/platefile/backend/internal/api"
	"github.com/platefile/backend/internal/database"
	"github.com/platefile/backend/internal/middleware"
	"github.com/platefile/backend/internal/router"
	"github.com/platefile/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *database.DB
	redis  *redis.Client
}

// New wires configuration, storage, collaborators and handlers into a
// ready-to-start server.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	gormDB, err := database.NewGormDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(gormDB); err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	// External collaborators. OCR and document archival are optional
	// capabilities: without credentials the pipeline still runs, it just
	// skips the corresponding steps.
	llmClient, err := service.NewLLMClient()
	if err != nil {
		return nil, err
	}

	var ocr service.OCRClient
	if ocrService, err := service.NewOCRService(); err != nil {
		log.Printf("[Server] OCR disabled: %v", err)
	} else {
		ocr = ocrService
	}

	var documents service.DocumentServiceInterface
	if s3Config, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("[Server] document archival disabled: %v", err)
	} else {
		documents = service.NewDocumentService(s3Config)
	}

	sourceReader := service.NewSourceReader(
		cfg.MaxDocumentBytes,
		cfg.OCRTriggerChars,
		service.NewPDFTextExtractor(),
		ocr,
		service.NewPageFetcher(cfg.RemoteFetchTimeout),
	)
	pipeline := service.NewExtractionPipeline(
		sourceReader,
		service.NewExtractorService(llmClient),
		cfg.ExtractedTextCap,
	)

	draftService := service.NewDraftService(redisClient)
	ingredientService := service.NewIngredientService(service.NewZestfulClient())
	recipeService := service.NewRecipeService(gormDB)
	shoppingService := service.NewShoppingListService(gormDB, recipeService)

	extractHandler := api.NewExtractHandler(pipeline, draftService, ingredientService, recipeService, documents)
	recipeHandler := api.NewRecipeHandler(recipeService)
	shoppingHandler := api.NewShoppingListHandler(shoppingService)
	limiter := middleware.NewExtractionRateLimiter(redisClient)

	engine := router.SetupRouter(extractHandler, recipeHandler, shoppingHandler, limiter, cfg.CORSAllowedOrigins)
	engine.GET("/health", func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		cfg:    cfg,
		router: engine,
		db:     db,
		redis:  redisClient,
	}, nil
}

// Start starts the server and blocks until it stops serving.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    s.cfg.ServerHost + ":" + s.cfg.ServerPort,
		Handler: s.router,
	}

	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			return err
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("[Server] failed to close redis client: %v", err)
		}
	}
	return nil
}
