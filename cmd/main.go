package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"recipe-rag/internal/config"
	"recipe-rag/internal/embedding"
	"recipe-rag/internal/helper"
	"recipe-rag/internal/index"
	"recipe-rag/internal/models"
	"recipe-rag/internal/planner"
	"recipe-rag/internal/rag"
	"recipe-rag/internal/recipe"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment as-is")
	}

	configPath := flag.String("config", configFilePath, "Path to the YAML config file")
	build := flag.Bool("build", false, "Build the recipe index from the corpus directory")
	query := flag.String("query", "", "Search the recipe index")
	meal := flag.String("meal", "", "Generate a single meal (colazione, pranzo, cena, ...)")
	day := flag.Bool("day", false, "Generate a full daily plan")
	date := flag.String("date", "", "Plan date in YYYY-MM-DD format (default: today)")
	workout := flag.Bool("workout", false, "Treat the day as a workout day")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("Config not loaded, using defaults")
		cfg = config.Default()
	}

	ctx := context.Background()

	if cfg.EmbedLLM.Provider == "ollama" {
		model, err := embedding.ResolveModel(ctx, cfg.EmbedLLM.BaseURL, cfg.EmbedLLM.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("Error resolving embedding model")
		}
		cfg.EmbedLLM.Model = model
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	indexer := index.New(cfg, embedder)
	extractor := recipe.NewExtractor(cfg.CacheDir)
	ragPipeline := rag.NewRAG(indexer, extractor, cfg)

	switch {
	case *build:
		if err := indexer.BuildIndex(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error building index")
		}
		log.Info().Int("chunks", indexer.Count()).Msg("Index ready")

	case *query != "":
		results, err := indexer.Search(ctx, *query, cfg.RAG.TopK)
		if err != nil {
			log.Fatal().Err(err).Msg("Error searching index")
		}
		helper.PrettyPrint(results)

	case *meal != "":
		plan := ragPipeline.GenerateMeal(ctx, planDate(*date), models.MealType(*meal), *workout)
		helper.PrettyPrint(plan)

	case *day:
		p, err := planner.New(ragPipeline, cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Error initializing planner")
		}
		plan, err := p.GenerateDailyPlan(ctx, planDate(*date), *workout)
		if err != nil {
			log.Fatal().Err(err).Msg("Error generating daily plan")
		}
		helper.PrettyPrint(plan)

	default:
		log.Fatal().Msg("Please provide one of -build, -query, -meal or -day")
	}
}

func planDate(date string) string {
	if date == "" {
		return time.Now().Format("2006-01-02")
	}
	return date
}
