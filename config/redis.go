package config

import (
	"strings"
	"time"
)

// RedisConfig contains Redis configuration for the delivery outcome ledger.
type RedisConfig struct {
	Enabled            bool          `env:"ENABLED"              envDefault:"false"`
	URI                string        `env:"URI"                  envDefault:"localhost:6379"`
	Password           string        `env:"PASSWORD"             envDefault:""`
	DB                 int           `env:"DB"                   envDefault:"0"`
	OutcomeTTL         time.Duration `env:"OUTCOME_TTL"          envDefault:"24h"`
	SentinelNodes      []string      `env:"SENTINEL_NODES"`
	SentinelMasterName string        `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string        `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool          `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string      `env:"CLUSTER_NODES"`
	UseCluster         bool          `env:"USE_CLUSTER"          envDefault:"false"`
}

// Sanitize trims connection settings and enforces a positive ledger TTL.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	c.SentinelMasterName = strings.TrimSpace(c.SentinelMasterName)
	if c.DB < 0 {
		c.DB = 0
	}
	if c.OutcomeTTL <= 0 {
		c.OutcomeTTL = 24 * time.Hour
	}
}
