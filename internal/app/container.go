package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"greenjobs/internal/aggregate"
	"greenjobs/internal/config"
	"greenjobs/internal/database/postgres"
	"greenjobs/internal/domain/measures"
	"greenjobs/internal/embed"
	"greenjobs/internal/infrastructure/cache"
	"greenjobs/internal/measure/industries"
	"greenjobs/internal/measure/occupations"
	"greenjobs/internal/measure/skills"
	"greenjobs/internal/ner"
	"greenjobs/internal/pipeline"
	"greenjobs/internal/repository"
	"greenjobs/internal/taxonomy"
	"greenjobs/internal/ws"
)

// Container wires the measurement engine: reference store, model-service
// clients, the three measurers, the pipeline runner and the optional
// sinks. Both the server and the batch CLI build one.
type Container struct {
	Config config.Config
	Logger *log.Logger

	Store      *taxonomy.Store
	Embedder   embed.Embedder
	Recognizer ner.Recognizer
	Classifier industries.SentenceClassifier

	Skills      *skills.Measurer
	Occupations *occupations.Measurer
	Industries  *industries.Measurer
	Runner      *pipeline.Runner

	Hub      *ws.Hub
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Measures repository.MeasuresRepository
}

// NewContainer builds every component from config. The file overlay
// carries calibrated thresholds and reference dates; pass the defaults
// when no overlay file is in play.
func NewContainer(cfg config.Config, fileCfg config.FileConfig, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	store, err := taxonomy.Load(taxonomy.PathsFor(cfg.Measure.ReferenceDir, fileCfg.ReferenceDates()), logger)
	if err != nil {
		return nil, fmt.Errorf("load reference store: %w", err)
	}

	embedClient, err := embed.NewClient(embed.ClientOptions{
		BaseURL: cfg.Services.EmbedURL,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("embed client: %w", err)
	}

	redisClient := cache.NewRedisClient(cfg.Redis, logger)
	var embedder embed.Embedder = embed.NewCachedEmbedder(embedClient, redisClient, logger)
	embedder = embed.NewPooledEmbedder(embedder, cfg.Measure.Workers, 0)

	recognizer, err := ner.NewHTTPRecognizer(cfg.Services.NERURL, logger)
	if err != nil {
		return nil, fmt.Errorf("recognizer client: %w", err)
	}

	classifier, err := industries.NewHTTPSentenceClassifier(cfg.Services.ClassifierURL, logger)
	if err != nil {
		return nil, fmt.Errorf("sentence classifier client: %w", err)
	}

	greenClassifier, err := skills.LoadGreenClassifier(cfg.Measure.GreenModelPath)
	if err != nil {
		return nil, fmt.Errorf("green skill classifier: %w", err)
	}

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Embedder:   embedder,
		Recognizer: recognizer,
		Classifier: classifier,
		Redis:      redisClient,
	}

	c.Skills = skills.NewMeasurer(store, embedder, recognizer, greenClassifier, fileCfg.Skills, logger)
	c.Occupations = occupations.NewMeasurer(store, embedder, fileCfg.Occupations, logger)
	c.Industries = industries.NewMeasurer(store, embedder, classifier, fileCfg.Industries, logger)

	c.Hub = ws.NewHub(logger)
	c.Runner = pipeline.NewRunner(
		c.Skills, c.Occupations, c.Industries,
		ws.NewProgressNotifier(c.Hub),
		pipeline.Options{ChunkSize: cfg.Measure.ChunkSize, Workers: cfg.Measure.Workers},
		logger,
	)

	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("connect measures sink: %w", err)
		}
		c.Pool = pool
		repo := repository.NewPostgresMeasuresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			c.Close()
			return nil, err
		}
		c.Measures = repo
	}

	return c, nil
}

// NewAggregator builds an aggregator for one grouping axis with the
// container's logger.
func (c *Container) NewAggregator(groupBy measures.GroupKey) *aggregate.Aggregator {
	return aggregate.New(aggregate.DefaultOptions(groupBy), c.Logger)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Redis != nil {
		return c.Redis.Close()
	}
	return nil
}
