package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// FileName is the configuration file name without extension
const FileName = "metagen"

// Config represents the metagen configuration
type Config struct {
	Sources           []string  `mapstructure:"sources"`
	Format            string    `mapstructure:"format"`
	OutputDir         string    `mapstructure:"output_dir"`
	MetamodelPackage  string    `mapstructure:"metamodel_package"`
	Strict            bool      `mapstructure:"strict"`
	MaxSupertypeDepth int       `mapstructure:"max_supertype_depth"`
	Log               LogConfig `mapstructure:"log"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Defaults
const (
	DefaultSource            = "src/main/java"
	DefaultFormat            = "auto"
	DefaultOutputDir         = "build/generated-sources/metamodel"
	DefaultMetamodelPackage  = "javax.persistence.metamodel"
	DefaultMaxSupertypeDepth = 64
	DefaultLogLevel          = "info"
)

// metamodel package shorthands
var packageAliases = map[string]string{
	"javax":   "javax.persistence.metamodel",
	"jakarta": "jakarta.persistence.metamodel",
}

// Load loads the configuration from metagen.yml or metagen.yaml in the
// working directory. METAGEN_* environment variables override file values,
// e.g. METAGEN_OUTPUT_DIR or METAGEN_LOG_LEVEL.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("sources", []string{DefaultSource})
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("metamodel_package", DefaultMetamodelPackage)
	v.SetDefault("strict", false)
	v.SetDefault("max_supertype_depth", DefaultMaxSupertypeDepth)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", false)

	// Set config name and paths
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.SetEnvPrefix("METAGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
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

// HasConfigFile checks if the current directory holds a metagen config file
func HasConfigFile() bool {
	for _, name := range []string{FileName + ".yml", FileName + ".yaml"} {
		if _, err := os.Stat(name); err == nil {
			return true
		}
	}
	return false
}

// ResolveMetamodelPackage expands the javax/jakarta shorthands
func ResolveMetamodelPackage(pkg string) string {
	if full, ok := packageAliases[strings.ToLower(strings.TrimSpace(pkg))]; ok {
		return full
	}
	return pkg
}

// validateConfig validates and normalizes the configuration
func validateConfig(cfg *Config) error {
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("sources must list at least one file or directory")
	}

	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	switch cfg.Format {
	case "", "auto", "manifest", "java":
	default:
		return fmt.Errorf("format must be one of auto, manifest, java, got: %s", cfg.Format)
	}

	if cfg.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}

	cfg.MetamodelPackage = ResolveMetamodelPackage(cfg.MetamodelPackage)
	if cfg.MetamodelPackage == "" || strings.HasPrefix(cfg.MetamodelPackage, ".") || strings.HasSuffix(cfg.MetamodelPackage, ".") {
		return fmt.Errorf("metamodel_package must be a Java package name, got: %q", cfg.MetamodelPackage)
	}

	if cfg.MaxSupertypeDepth <= 0 {
		return fmt.Errorf("max_supertype_depth must be positive, got: %d", cfg.MaxSupertypeDepth)
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", cfg.Log.Level)
	}
	return nil
}
