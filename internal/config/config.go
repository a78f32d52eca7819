// Package config loads deployment configuration from recto.yml and the
// environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/recto-project/recto/internal/source"
)

// Config represents the recto configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Solr       SolrConfig       `mapstructure:"solr"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Image      ImageConfig      `mapstructure:"image"`
	IIIF       IIIFConfig       `mapstructure:"iiif"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the listen address in host:port form
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SolrConfig represents the search index configuration
type SolrConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	URIField  string `mapstructure:"uri_field"`
	TextField string `mapstructure:"text_field"`
	Queries   string `mapstructure:"queries"`
}

// RepositoryConfig represents the resource repository configuration
type RepositoryConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Prefix   string `mapstructure:"prefix"`
	PathSep  string `mapstructure:"path_sep"`
}

// ImageConfig represents the IIIF Image API service configuration
type ImageConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// IIIFConfig represents the presentation surface configuration
type IIIFConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	LogoURL        string `mapstructure:"logo_url"`
	ThumbnailWidth int    `mapstructure:"thumbnail_width"`
}

// Load loads the configuration from recto.yml or recto.yaml in the
// current directory, with RECTO_-prefixed environment variables taking
// precedence.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom loads the configuration from the given directory.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("solr.text_field", "extracted_text")
	v.SetDefault("solr.queries", "queries.yml")
	v.SetDefault("repository.path_sep", ":")
	v.SetDefault("iiif.thumbnail_width", 250)

	v.SetConfigName("recto")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("RECTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults and environment
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadQueries reads the metadata query spec from the given YAML file.
// Mapping order in the file is preserved.
func LoadQueries(path string) (*source.QuerySpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read queries file: %w", err)
	}

	var spec source.QuerySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse queries file %s: %w", path, err)
	}

	for _, key := range []string{source.KeyURI, source.KeyPageURIs, source.KeyPageImageIDs} {
		if _, ok := spec.Get(key); !ok {
			return nil, fmt.Errorf("queries file %s missing required key %s", path, key)
		}
	}

	return &spec, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Solr.Endpoint == "" {
		return fmt.Errorf("solr.endpoint is required")
	}
	if _, err := url.ParseRequestURI(cfg.Solr.Endpoint); err != nil {
		return fmt.Errorf("invalid solr.endpoint: %w", err)
	}
	if cfg.Repository.Endpoint == "" {
		return fmt.Errorf("repository.endpoint is required")
	}
	if cfg.Repository.Prefix == "" {
		return fmt.Errorf("repository.prefix is required")
	}
	if cfg.Image.Endpoint == "" {
		return fmt.Errorf("image.endpoint is required")
	}
	if cfg.IIIF.BaseURL == "" {
		return fmt.Errorf("iiif.base_url is required")
	}
	if !strings.HasPrefix(cfg.IIIF.BaseURL, "http://") && !strings.HasPrefix(cfg.IIIF.BaseURL, "https://") {
		return fmt.Errorf("iiif.base_url must be an absolute http(s) URL, got: %s", cfg.IIIF.BaseURL)
	}
	if cfg.IIIF.ThumbnailWidth <= 0 {
		return fmt.Errorf("iiif.thumbnail_width must be positive, got: %d", cfg.IIIF.ThumbnailWidth)
	}
	return nil
}
