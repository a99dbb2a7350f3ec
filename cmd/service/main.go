package main

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/retirement-engine/internal/api"
)

func main() {
	log.Println("Starting retirement-savings temporal adjustment engine...")

	gin.SetMode(getEnvOrDefault("GIN_MODE", gin.ReleaseMode))

	defaultCapMultiple := getEnvFloatOrDefault("MAX_INVESTMENT_DEFAULT_MULTIPLE", 12)
	r := api.SetupRouter(defaultCapMultiple)

	port := getEnvOrDefault("PORT", "5339")

	log.Printf("Engine running on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings. No env var is required to start this service:
// unlike the teacher, there are no DB/RPC credentials to gate on since
// persistence and external RPC are both non-goals here.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvFloatOrDefault parses a numeric env var, falling back (and
// logging) on anything missing or malformed rather than failing startup
// over a single tunable.
func getEnvFloatOrDefault(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v: %v", key, val, fallback, err)
		return fallback
	}
	return f
}
