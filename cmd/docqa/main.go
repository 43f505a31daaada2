package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/embedding"
	embgemini "docqa/internal/embedding/gemini"
	embopenai "docqa/internal/embedding/openai"
	"docqa/internal/embedding/tfidf"
	"docqa/internal/generator"
	gengemini "docqa/internal/generator/gemini"
	genopenai "docqa/internal/generator/openai"
	"docqa/internal/loader"
	"docqa/internal/logger"
	"docqa/internal/service"
	"docqa/internal/tui"
	"docqa/internal/vectorstore"
	"docqa/internal/vectorstore/memory"
	"docqa/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var debug bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docqa/config.yaml if not provided)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: docqa [--config=config.yaml] file1.pdf [file2.pdf ...]")
		os.Exit(1)
	}
	logger.Init(debug)

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Assemble components
	var emb embedding.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "gemini":
		gcfg := embgemini.Config{}
		if c := cfg.Embedder.Gemini; c != nil {
			gcfg = embgemini.Config{
				BaseURL:   c.BaseURL,
				APIKeyEnv: c.APIKeyEnv,
				Model:     c.Model,
				Timeout:   time.Duration(c.TimeoutSecs) * time.Second,
			}
		}
		client, err := embgemini.NewClient(gcfg)
		if err != nil {
			log.Fatalf("gemini embedder init failed: %v", err)
		}
		emb = client
	case "openai":
		ocfg := embopenai.Config{}
		if c := cfg.Embedder.OpenAI; c != nil {
			ocfg = embopenai.Config{
				BaseURL:   c.BaseURL,
				APIKeyEnv: c.APIKeyEnv,
				Model:     c.Model,
				Timeout:   time.Duration(c.TimeoutSecs) * time.Second,
			}
		}
		client, err := embopenai.NewClient(ocfg)
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		emb = client
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var memStore *memory.Storage
	var st vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory", "":
		memStore = memory.NewStorage()
		st = memStore
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			log.Fatalf("qdrant config missing")
		}
		st = qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		log.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	var gen generator.Generator
	switch cfg.Generator.Type {
	case "gemini", "":
		gcfg := gengemini.Config{}
		if c := cfg.Generator.Gemini; c != nil {
			gcfg = gengemini.Config{
				BaseURL:     c.BaseURL,
				APIKeyEnv:   c.APIKeyEnv,
				Model:       c.Model,
				Temperature: c.Temperature,
				Timeout:     time.Duration(c.TimeoutSecs) * time.Second,
			}
		}
		client, err := gengemini.NewClient(gcfg)
		if err != nil {
			log.Fatalf("gemini generator init failed: %v", err)
		}
		gen = client
	case "openai":
		ocfg := genopenai.Config{}
		if c := cfg.Generator.OpenAI; c != nil {
			ocfg = genopenai.Config{
				BaseURL:     c.BaseURL,
				APIKeyEnv:   c.APIKeyEnv,
				Model:       c.Model,
				Temperature: c.Temperature,
				Timeout:     time.Duration(c.TimeoutSecs) * time.Second,
			}
		}
		client, err := genopenai.NewClient(ocfg)
		if err != nil {
			log.Fatalf("openai generator init failed: %v", err)
		}
		gen = client
	default:
		log.Fatalf("unknown generator: %s", cfg.Generator.Type)
	}

	ch := chunker.NewWindowChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	session := service.NewSession(loader.New(), ch, emb, st, gen, cfg.Retrieval.TopK)

	report, err := session.AddDocuments(inputs)
	if err != nil {
		log.Fatalf("no readable documents: %v", err)
	}
	for path, ferr := range report.Failed {
		logger.Error("skipped %s: %v", path, ferr)
	}
	if err := session.BuildIndex(); err != nil {
		log.Fatalf("index build failed: %v", err)
	}
	if memStore != nil && cfg.VectorStore.PersistPath != "" {
		if err := memStore.SaveSnapshot(cfg.VectorStore.PersistPath); err != nil {
			logger.Error("failed to save index snapshot: %v", err)
		} else {
			logger.Info("index snapshot saved to %s", cfg.VectorStore.PersistPath)
		}
	}

	m := tui.New(session)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
