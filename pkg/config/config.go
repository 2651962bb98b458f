/*
Package config manages the TOML config for wordswap.

Durations are stored as integer milliseconds. Zero values in the [lexicon]
section mean "pick per mode": rhyme mode asks for rel_rhy with 3 results,
paraphrase mode for ml with 5.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/bastiangx/wordswap/pkg/lexicon"
	"github.com/bastiangx/wordswap/pkg/rewrite"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config dir.
const FileName = "config.toml"

// Environment overrides applied by ApplyEnv.
const (
	EnvLexiconURL = "WORDSWAP_LEXICON_URL"
	EnvRedisAddr  = "WORDSWAP_REDIS_ADDR"
	EnvMode       = "WORDSWAP_MODE"
)

// Config holds the entire config structure
type Config struct {
	Lexicon  LexiconConfig  `toml:"lexicon"`
	Resolver ResolverConfig `toml:"resolver"`
	Rewrite  RewriteConfig  `toml:"rewrite"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Cache    CacheConfig    `toml:"cache"`
}

// LexiconConfig has lookup service options.
type LexiconConfig struct {
	BaseURL     string  `toml:"base_url"`
	Relation    string  `toml:"relation"`
	MaxResults  int     `toml:"max_results"`
	TimeoutMs   int     `toml:"timeout_ms"`
	Retries     int     `toml:"retries"`
	BaseDelayMs int     `toml:"base_delay_ms"`
	RateLimit   float64 `toml:"rate_limit"`
	Burst       int     `toml:"burst"`
}

// ResolverConfig holds word lookup pool options.
type ResolverConfig struct {
	Workers int `toml:"workers"`
}

// RewriteConfig holds substitution options.
type RewriteConfig struct {
	Mode          string `toml:"mode"`
	Scope         string `toml:"scope"`
	CaseSensitive bool   `toml:"case_sensitive"`
	Consistent    bool   `toml:"consistent"`
}

// PipelineConfig holds paragraph pool options. Zero workers means
// min(NumCPU, 4).
type PipelineConfig struct {
	Workers int `toml:"workers"`
}

// CacheConfig holds candidate cache options. An empty RedisAddr keeps the
// cache in process.
type CacheConfig struct {
	Enabled       bool   `toml:"enabled"`
	MaxWords      int    `toml:"max_words"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
	TTLSeconds    int    `toml:"ttl_seconds"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Lexicon: LexiconConfig{
			BaseURL:     lexicon.DefaultBaseURL,
			Relation:    "",
			MaxResults:  0,
			TimeoutMs:   10000,
			Retries:     2,
			BaseDelayMs: 1000,
			RateLimit:   0,
			Burst:       1,
		},
		Resolver: ResolverConfig{
			Workers: 4,
		},
		Rewrite: RewriteConfig{
			Mode:          string(rewrite.Paraphrase),
			Scope:         string(rewrite.ScopeParagraph),
			CaseSensitive: false,
			Consistent:    false,
		},
		Pipeline: PipelineConfig{
			Workers: 0,
		},
		Cache: CacheConfig{
			Enabled:     true,
			MaxWords:    10000,
			RedisAddr:   "",
			RedisDB:     0,
			RedisPrefix: "wordswap:",
			TTLSeconds:  86400,
		},
	}
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(FileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/wordswap/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Values that fail to decode fall back
// to their defaults one field at a time.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed value of a config file that
// failed the strict decode.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "lexicon"); ok {
		extractLexiconConfig(section, &config.Lexicon)
	}
	if section, ok := utils.ExtractSection(tempConfig, "resolver"); ok {
		if val, ok := utils.ExtractInt64(section, "workers"); ok {
			config.Resolver.Workers = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "rewrite"); ok {
		extractRewriteConfig(section, &config.Rewrite)
	}
	if section, ok := utils.ExtractSection(tempConfig, "pipeline"); ok {
		if val, ok := utils.ExtractInt64(section, "workers"); ok {
			config.Pipeline.Workers = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cache"); ok {
		extractCacheConfig(section, &config.Cache)
	}
	return config, nil
}

func extractLexiconConfig(data map[string]any, lc *LexiconConfig) {
	if val, ok := utils.ExtractString(data, "base_url"); ok {
		lc.BaseURL = val
	}
	if val, ok := utils.ExtractString(data, "relation"); ok {
		lc.Relation = val
	}
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		lc.MaxResults = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_ms"); ok {
		lc.TimeoutMs = val
	}
	if val, ok := utils.ExtractInt64(data, "retries"); ok {
		lc.Retries = val
	}
	if val, ok := utils.ExtractInt64(data, "base_delay_ms"); ok {
		lc.BaseDelayMs = val
	}
	if val, ok := utils.ExtractFloat(data, "rate_limit"); ok {
		lc.RateLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "burst"); ok {
		lc.Burst = val
	}
}

func extractRewriteConfig(data map[string]any, rc *RewriteConfig) {
	if val, ok := utils.ExtractString(data, "mode"); ok {
		rc.Mode = val
	}
	if val, ok := utils.ExtractString(data, "scope"); ok {
		rc.Scope = val
	}
	if val, ok := utils.ExtractBool(data, "case_sensitive"); ok {
		rc.CaseSensitive = val
	}
	if val, ok := utils.ExtractBool(data, "consistent"); ok {
		rc.Consistent = val
	}
}

func extractCacheConfig(data map[string]any, cc *CacheConfig) {
	if val, ok := utils.ExtractBool(data, "enabled"); ok {
		cc.Enabled = val
	}
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		cc.MaxWords = val
	}
	if val, ok := utils.ExtractString(data, "redis_addr"); ok {
		cc.RedisAddr = val
	}
	if val, ok := utils.ExtractString(data, "redis_password"); ok {
		cc.RedisPassword = val
	}
	if val, ok := utils.ExtractInt64(data, "redis_db"); ok {
		cc.RedisDB = val
	}
	if val, ok := utils.ExtractString(data, "redis_prefix"); ok {
		cc.RedisPrefix = val
	}
	if val, ok := utils.ExtractInt64(data, "ttl_seconds"); ok {
		cc.TTLSeconds = val
	}
}

// ApplyEnv overrides config values from the environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLexiconURL)); v != "" {
		c.Lexicon.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisAddr)); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMode)); v != "" {
		c.Rewrite.Mode = v
	}
}

// Mode returns the configured rewrite mode.
func (c *Config) Mode() (rewrite.Mode, error) {
	return rewrite.ParseMode(c.Rewrite.Mode)
}

// Scope returns the configured resolution scope.
func (c *Config) Scope() (rewrite.Scope, error) {
	return rewrite.ParseScope(c.Rewrite.Scope)
}

// LookupConfig converts the [lexicon] section into a lexicon.Config for
// mode. An unknown relation falls back to the mode's.
func (c *Config) LookupConfig(mode rewrite.Mode) lexicon.Config {
	lc := c.Lexicon
	relation := lexicon.Relation(lc.Relation)
	if !relation.Valid() {
		if lc.Relation != "" {
			log.Warnf("Unknown relation %q in config, using %q", lc.Relation, mode.Relation())
		}
		relation = mode.Relation()
	}
	maxResults := lc.MaxResults
	if maxResults <= 0 {
		maxResults = mode.MaxResults()
	}
	return lexicon.Config{
		BaseURL:    lc.BaseURL,
		Relation:   relation,
		MaxResults: maxResults,
		Timeout:    time.Duration(lc.TimeoutMs) * time.Millisecond,
		Retries:    lc.Retries,
		BaseDelay:  time.Duration(lc.BaseDelayMs) * time.Millisecond,
		RateLimit:  lc.RateLimit,
		Burst:      lc.Burst,
	}
}

// CacheTTL returns the Redis entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
