package helper

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"picklist/internal/database"
)

// Config holds the full service configuration. Values resolve in order:
// environment variables, then the optional YAML config file, then defaults.
type Config struct {
	Port       string
	Neo4j      database.Config
	Extraction ExtractionConfig
	SeedDemo   bool
}

// ExtractionConfig configures the image extraction provider call.
type ExtractionConfig struct {
	Endpoint string
	APIKey   string
	Model    string
}

// fileConfig is the optional YAML config file shape.
type fileConfig struct {
	Port  string `yaml:"port"`
	Neo4j struct {
		URI      string `yaml:"uri"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"neo4j"`
	Extraction struct {
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
		Model    string `yaml:"model"`
	} `yaml:"extraction"`
}

const (
	defaultPort               = "8080"
	defaultNeo4jDatabase      = "neo4j"
	defaultNeo4jUsername      = "neo4j"
	defaultExtractionEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultExtractionModel    = "gpt-4o"
	defaultConfigFile         = "picklist.yaml"
)

// LoadConfig builds the service configuration. path points at the YAML
// config file; empty means the default location, which may be absent.
func LoadConfig(path string) (Config, error) {
	var file fileConfig

	explicit := path != ""
	if path == "" {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Default config file is optional.
	default:
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Config{
		Port: resolve("APP_PORT", file.Port, defaultPort),
		Neo4j: database.Config{
			URI:      resolve("NEO4J_URI", file.Neo4j.URI, ""),
			Username: resolve("NEO4J_USERNAME", file.Neo4j.Username, defaultNeo4jUsername),
			Password: resolve("NEO4J_PASSWORD", file.Neo4j.Password, ""),
			Database: resolve("NEO4J_DATABASE", file.Neo4j.Database, defaultNeo4jDatabase),
		},
		Extraction: ExtractionConfig{
			Endpoint: resolve("OPENAI_ENDPOINT", file.Extraction.Endpoint, defaultExtractionEndpoint),
			APIKey:   resolve("OPENAI_API_KEY", file.Extraction.APIKey, ""),
			Model:    resolve("OPENAI_MODEL", file.Extraction.Model, defaultExtractionModel),
		},
		SeedDemo: os.Getenv("SEED_DEMO_DATA") == "true",
	}

	return cfg, nil
}

// resolve returns the environment value if set, else the file value, else
// the default.
func resolve(envKey, fileValue, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}
