package config

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

var (
	// Cache instances for different data types
	EscuelaCache  *cache.Cache
	AnalysisCache *cache.Cache
)

const (
	// Cache durations
	escuelaCacheDuration   = 5 * time.Minute
	defaultAnalysisTTL     = 7 * 24 * time.Hour
	escuelaCleanupInterval = 15 * time.Minute
)

// AnalysisTTL is the time-to-live for cached AI analyses, shared with the
// Mongo-persisted copies. Tunable via ANALYSIS_CACHE_TTL (Go duration).
var AnalysisTTL = defaultAnalysisTTL

func InitCache() {
	AnalysisTTL = GetEnvAsDuration("ANALYSIS_CACHE_TTL", defaultAnalysisTTL)

	EscuelaCache = cache.New(escuelaCacheDuration, escuelaCleanupInterval)
	AnalysisCache = cache.New(AnalysisTTL, AnalysisTTL/2)
}

func ClearAllCaches() {
	EscuelaCache.Flush()
	AnalysisCache.Flush()
}

func GetCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
