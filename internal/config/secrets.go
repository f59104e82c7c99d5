package config

import (
	"os"

	log "github.com/sirupsen/logrus"
)

const (
	EnvAssistantAPIKey = "OPENAI_API_KEY"
	EnvAssistantID     = "REPIT_ASSISTANT_ID"
	EnvSitePassword    = "REPIT_SITE_PASSWORD"
	EnvRedisPassword   = "REPIT_REDIS_PASS"
	EnvPostgresUser    = "REPIT_POSTGRES_USER"
	EnvPostgresPass    = "REPIT_POSTGRES_PASS"
	EnvSentryDSN       = "SENTRY_DSN"
)

// Secrets are never read from the TOML file, only from the environment.
type Secrets struct {
	AssistantAPIKey  string
	AssistantID      string
	SitePassword     string
	RedisPassword    string
	PostgresUser     string
	PostgresPassword string
	SentryDSN        string
}

// SecretsFromEnv reads all secrets and logs the missing ones. Missing generation
// credentials are not fatal here: the generator reports them on first use.
func SecretsFromEnv() Secrets {
	s := Secrets{
		AssistantAPIKey:  os.Getenv(EnvAssistantAPIKey),
		AssistantID:      os.Getenv(EnvAssistantID),
		SitePassword:     os.Getenv(EnvSitePassword),
		RedisPassword:    os.Getenv(EnvRedisPassword),
		PostgresUser:     os.Getenv(EnvPostgresUser),
		PostgresPassword: os.Getenv(EnvPostgresPass),
		SentryDSN:        os.Getenv(EnvSentryDSN),
	}

	if s.AssistantAPIKey == "" {
		log.Errorf("assistant API key not set, use %s env var to set it", EnvAssistantAPIKey)
	}
	if s.AssistantID == "" {
		log.Errorf("assistant id not set, use %s env var to set it", EnvAssistantID)
	}
	if s.SitePassword == "" {
		log.Errorf("site password not set, the gate stays locked. use %s", EnvSitePassword)
	}
	if s.RedisPassword == "" {
		log.Warnf("redis password not set. use %s", EnvRedisPassword)
	}

	return s
}
