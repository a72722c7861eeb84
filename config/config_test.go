package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("RELEVAMIENTO_TEST_STR", "valor")
	t.Setenv("RELEVAMIENTO_TEST_INT", "42")
	t.Setenv("RELEVAMIENTO_TEST_BOOL", "true")
	t.Setenv("RELEVAMIENTO_TEST_DUR", "90s")
	t.Setenv("RELEVAMIENTO_TEST_BAD", "no es un número")

	assert.Equal(t, "valor", GetEnvWithDefault("RELEVAMIENTO_TEST_STR", "defecto"))
	assert.Equal(t, "defecto", GetEnvWithDefault("RELEVAMIENTO_TEST_MISSING", "defecto"))

	assert.Equal(t, 42, GetEnvAsInt("RELEVAMIENTO_TEST_INT", 7))
	assert.Equal(t, 7, GetEnvAsInt("RELEVAMIENTO_TEST_BAD", 7))

	assert.True(t, GetEnvAsBool("RELEVAMIENTO_TEST_BOOL", false))
	assert.False(t, GetEnvAsBool("RELEVAMIENTO_TEST_BAD", false))

	assert.Equal(t, 90*time.Second, GetEnvAsDuration("RELEVAMIENTO_TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, GetEnvAsDuration("RELEVAMIENTO_TEST_BAD", time.Minute))
}

func TestGetCacheKey(t *testing.T) {
	assert.Equal(t, "escuelas", GetCacheKey("escuelas"))
	assert.Equal(t, "escuelas:maría:1:50", GetCacheKey("escuelas", "maría", 1, 50))
}

func TestInitCacheReadsTTL(t *testing.T) {
	t.Setenv("ANALYSIS_CACHE_TTL", "24h")
	InitCache()
	assert.Equal(t, 24*time.Hour, AnalysisTTL)

	t.Setenv("ANALYSIS_CACHE_TTL", "")
	InitCache()
	assert.Equal(t, 7*24*time.Hour, AnalysisTTL)
}
