package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// GetString retrieves an environment variable or returns a fallback when unset.
func GetString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetInt retrieves an environment variable as integer or returns fallback.
func GetInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("invalid value for %s: %v", key, err)
			return fallback
		}
		return parsed
	}
	return fallback
}

// GetBool retrieves an environment variable as bool or returns fallback.
func GetBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("invalid value for %s: %v", key, err)
			return fallback
		}
		return parsed
	}
	return fallback
}

// Config holds runtime configuration for the publishing service.
type Config struct {
	Environment    string
	Addr           string
	LogLevel       string
	GitHost        string
	GitHubToken    string
	GitHubUsername string
	TemplateRepo   string
	GitAuthorName  string
	GitAuthorEmail string
	GitBranch      string
	GitTimeout     time.Duration
	WorkspaceRoot  string
	WebsiteURL     string

	VercelToken     string
	VercelProjectID string
	VercelAPIURL    string
	WebhookSecret   string

	DeployCacheRedisAddr string
	DeployCacheRedisPass string
	DeployCacheRedisDB   int
	DeployCacheTTL       time.Duration
}

// Load constructs a Config from environment variables.
func Load() Config {
	return Config{
		Environment:    GetString("APP_ENV", "development"),
		Addr:           GetString("SITEOMATIC_ADDR", ":4000"),
		LogLevel:       GetString("LOG_LEVEL", "info"),
		GitHost:        GetString("GIT_HOST", "github.com"),
		GitHubToken:    GetString("GITHUB_TOKEN", ""),
		GitHubUsername: GetString("GITHUB_USERNAME", "sujeethshingade"),
		TemplateRepo:   GetString("TEMPLATE_REPO_NAME", "siteomatic-website-template"),
		GitAuthorName:  GetString("GIT_AUTHOR_NAME", "siteomatic-bot"),
		GitAuthorEmail: GetString("GIT_AUTHOR_EMAIL", "bot@siteomatic.dev"),
		GitBranch:      GetString("GIT_BRANCH", "main"),
		GitTimeout:     time.Duration(GetInt("GIT_TIMEOUT_SECONDS", 120)) * time.Second,
		WorkspaceRoot:  GetString("WORKSPACE_ROOT", filepath.Join(os.TempDir(), "siteomatic-workspaces")),
		WebsiteURL:     GetString("WEBSITE_URL", "https://siteomatic.vercel.app/"),

		VercelToken:     GetString("VERCEL_TOKEN", ""),
		VercelProjectID: GetString("VERCEL_PROJECT_ID", ""),
		VercelAPIURL:    GetString("VERCEL_API_URL", "https://api.vercel.com"),
		WebhookSecret:   GetString("VERCEL_WEBHOOK_SECRET", ""),

		DeployCacheRedisAddr: GetString("DEPLOY_CACHE_REDIS_ADDR", ""),
		DeployCacheRedisPass: GetString("DEPLOY_CACHE_REDIS_PASSWORD", ""),
		DeployCacheRedisDB:   GetInt("DEPLOY_CACHE_REDIS_DB", 0),
		DeployCacheTTL:       time.Duration(GetInt("DEPLOY_CACHE_TTL_HOURS", 24)) * time.Hour,
	}
}

// RepoURL builds the clone URL for the template repository, embedding the
// access token when one is configured.
func (c Config) RepoURL() string {
	base := c.GitHost + "/" + c.GitHubUsername + "/" + c.TemplateRepo + ".git"
	if c.GitHubToken == "" {
		return "https://" + base
	}
	return "https://" + c.GitHubToken + "@" + base
}
