package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/substitute-matcher/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "planner",
		Password: "secret",
		Name:     "subs",
		SSLMode:  "require",
	})
	assert.Equal(t, "host=db port=5433 user=planner password=secret dbname=subs sslmode=require application_name=substitute-matcher", dsn)
}
