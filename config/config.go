package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the assistant.
type Config struct {
	DataDir   string          `mapstructure:"data_dir" validate:"required"`
	LogLevel  string          `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	PDF       PDFConfig       `mapstructure:"pdf"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	CLIP      CLIPConfig      `mapstructure:"clip"`
	Store     StoreConfig     `mapstructure:"store"`
	Search    SearchConfig    `mapstructure:"search"`
}

// PDFConfig bounds how much of a paper is read for classification.
type PDFConfig struct {
	MaxPages         int    `mapstructure:"max_pages" validate:"min=1"`
	MaxChars         int    `mapstructure:"max_chars" validate:"min=1"`
	UnidocLicenseKey string `mapstructure:"unidoc_license_key"`
}

// EmbeddingConfig selects the text embedding model used for papers.
type EmbeddingConfig struct {
	Provider     string        `mapstructure:"provider" validate:"oneof=ollama openai gemini"`
	Model        string        `mapstructure:"model" validate:"required"`
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ChunkSize    int           `mapstructure:"chunk_size" validate:"min=0"`
	ChunkOverlap int           `mapstructure:"chunk_overlap" validate:"min=0,ltefield=ChunkSize"`
}

// CLIPConfig points at the joint image/text embedding server used for images.
type CLIPConfig struct {
	URL       string        `mapstructure:"url" validate:"required,url"`
	ImageSize int           `mapstructure:"image_size" validate:"min=0"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	Backend    string `mapstructure:"backend" validate:"oneof=sqlite chroma qdrant"`
	ChromaURL  string `mapstructure:"chroma_url"`
	QdrantHost string `mapstructure:"qdrant_host"`
	QdrantPort int    `mapstructure:"qdrant_port"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	TopK int `mapstructure:"top_k" validate:"min=1"`
}

// PapersDir is where classified papers and the paper index live.
func (c *Config) PapersDir() string {
	return filepath.Join(c.DataDir, "papers")
}

// ImagesDir is where the image index lives.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.DataDir, "images")
}

// StoreDir returns the local store directory for a modality directory.
func StoreDir(modalityDir string) string {
	return filepath.Join(modalityDir, "chroma_db")
}

// Load reads configuration from .env, the config file and LOCALASSIST_*
// environment variables, in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("CONFIG: No .env file found, relying on environment variables.")
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.localassist")
	}

	v.SetEnvPrefix("LOCALASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The unidoc key has historically been read from its own variable.
	if cfg.PDF.UnidocLicenseKey == "" {
		cfg.PDF.UnidocLicenseKey = os.Getenv("UNIDOC_LICENSE_KEY")
	}
	cfg.Embedding.APIKey = os.ExpandEnv(cfg.Embedding.APIKey)

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Finalize makes DataDir absolute and validates the configuration. It is
// called again after command-line overrides are applied.
func (c *Config) Finalize() error {
	absPath, err := filepath.Abs(c.DataDir)
	if err != nil {
		return fmt.Errorf("could not determine absolute path for data_dir: %w", err)
	}
	c.DataDir = absPath

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "./data")
	v.SetDefault("log_level", "warn")

	v.SetDefault("pdf.max_pages", 5)
	v.SetDefault("pdf.max_chars", 50000)
	v.SetDefault("pdf.unidoc_license_key", "")

	v.SetDefault("embedding.provider", "ollama")
	v.SetDefault("embedding.model", "all-minilm")
	v.SetDefault("embedding.base_url", "http://localhost:11434")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.timeout", 60*time.Second)
	v.SetDefault("embedding.chunk_size", 1000)
	v.SetDefault("embedding.chunk_overlap", 100)

	v.SetDefault("clip.url", "http://localhost:51000")
	v.SetDefault("clip.image_size", 224)
	v.SetDefault("clip.timeout", 60*time.Second)

	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.chroma_url", "http://localhost:8000")
	v.SetDefault("store.qdrant_host", "localhost")
	v.SetDefault("store.qdrant_port", 6334)

	v.SetDefault("search.top_k", 5)
}
