package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	cmdconstants "github.com/agentstation/dimcheck/internal/cmd/constants"
	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

// EnvPrefix is prepended to every configuration key read from the environment.
const EnvPrefix = "DIMCHECK"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// File locations
	HomeDir     string
	CatalogPath string
	ModelPath   string
	ModelsDir   string
	OutputDir   string
	PrefsPath   string
	DatasetPath string

	// Default tolerance when neither flags nor prefs set one
	Tolerance tolerance.Tolerance

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (DIMCHECK_ prefix)
// 3. .env files
// 4. Config file (~/.dimcheck.yaml or ./.dimcheck.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	// .env files go first so viper's env binding sees them
	loadEnvFiles()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	home := expandHome(constants.DefaultHomeDir)
	v.SetDefault("home", home)
	v.SetDefault("catalog_path", "")
	v.SetDefault("model_path", "")
	v.SetDefault("models_dir", "")
	v.SetDefault("output_dir", cmdconstants.DefaultOutputDir)
	v.SetDefault("prefs_path", "")
	v.SetDefault("dataset_path", cmdconstants.DefaultDatasetFile)
	v.SetDefault("tolerance.length", constants.DefaultTolerance)
	v.SetDefault("tolerance.width", constants.DefaultTolerance)
	v.SetDefault("tolerance.height", constants.DefaultTolerance)

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if userHome, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(userHome)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".dimcheck")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "read "+v.ConfigFileUsed(), err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		HomeDir:     expandHome(v.GetString("home")),
		CatalogPath: expandHome(v.GetString("catalog_path")),
		ModelPath:   expandHome(v.GetString("model_path")),
		ModelsDir:   expandHome(v.GetString("models_dir")),
		OutputDir:   expandHome(v.GetString("output_dir")),
		PrefsPath:   expandHome(v.GetString("prefs_path")),
		DatasetPath: expandHome(v.GetString("dataset_path")),

		Tolerance: tolerance.Tolerance{
			Length: v.GetFloat64("tolerance.length"),
			Width:  v.GetFloat64("tolerance.width"),
			Height: v.GetFloat64("tolerance.height"),
		},

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.ModelsDir == "" {
		config.ModelsDir = filepath.Join(config.HomeDir, constants.DefaultModelsDir)
	}
	if config.PrefsPath == "" {
		config.PrefsPath = filepath.Join(config.HomeDir, constants.DefaultPrefsFile)
	}
	if err := config.Tolerance.Validate(); err != nil {
		return nil, errors.NewConfigError("tolerance", err.Error(), err)
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so it wins over .env; godotenv never
// overrides a variable that is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
