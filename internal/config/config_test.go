package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setPostgresEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("PG_PORT", "5433")
	t.Setenv("PG_USER", "assess")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "assessments")
}

func TestLoadPostgres(t *testing.T) {
	setPostgresEnv(t)

	pg, err := LoadPostgres()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", pg.Host)
	assert.Equal(t, 5433, pg.Port)
	assert.Equal(t, "disable", pg.SSLMode)
}

func TestLoadPostgresRequiresCredentials(t *testing.T) {
	setPostgresEnv(t)
	t.Setenv("PG_USER", "")

	_, err := LoadPostgres()
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	pg := Postgres{
		Host:     "db.internal",
		Port:     5433,
		User:     "assess",
		Password: "secret",
		Database: "assessments",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=assess password=secret dbname=assessments sslmode=require",
		pg.DSN())
}
