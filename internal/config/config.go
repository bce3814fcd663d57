package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	CorpusDir    string    `yaml:"corpus_dir"`
	IndexDir     string    `yaml:"index_dir"`
	CacheDir     string    `yaml:"cache_dir"`
	DataDir      string    `yaml:"data_dir"`
	RAG          RAGConfig `yaml:"rag"`
	EmbedLLM     LLMConfig `yaml:"embed_llm"`
	InferenceLLM LLMConfig `yaml:"inference_llm"`
}

type RAGConfig struct {
	ChunkSize     int `yaml:"chunk_size"`
	ChunkOverlap  int `yaml:"chunk_overlap"`
	MinChunkChars int `yaml:"min_chunk_chars"`
	TopK          int `yaml:"top_k"`
	// EmbeddingDim is only used to shape an explicitly empty index when the
	// corpus yields zero chunks; populated indexes take the dim from the model.
	EmbeddingDim int `yaml:"embedding_dim"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // "ollama" or "openai"
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.CorpusDir == "" {
		cfg.CorpusDir = "data/recipes"
	}
	if cfg.IndexDir == "" {
		cfg.IndexDir = "data/index"
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = ".cache"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data/nutrition"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 1200
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 200
	}
	if cfg.RAG.MinChunkChars == 0 {
		cfg.RAG.MinChunkChars = 50
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 6
	}
	if cfg.RAG.EmbeddingDim == 0 {
		cfg.RAG.EmbeddingDim = 384
	}
	if cfg.EmbedLLM.Provider == "" {
		cfg.EmbedLLM.Provider = "ollama"
	}
	if cfg.EmbedLLM.BaseURL == "" {
		cfg.EmbedLLM.BaseURL = "http://localhost:11434"
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = "nomic-embed-text"
	}
	if cfg.InferenceLLM.Provider == "" {
		cfg.InferenceLLM.Provider = "openai"
	}
}
