package api

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/retirement-engine/internal/returns"
)

// APIHandler holds process-wide state shared across requests: the boot
// time (for /performance) and the validator's default cumulative-cap
// multiplier (overridable via MAX_INVESTMENT_DEFAULT_MULTIPLE). No batch
// state is ever kept here — every request's canonicalization/engine/
// aggregation state lives and dies within its own handler call (spec §3's
// batch-state scope).
type APIHandler struct {
	bootTime           time.Time
	defaultCapMultiple float64
}

// SetupRouter wires the six compute/inspection endpoints behind a CORS
// policy and a per-IP rate limiter on the parse, validator, filter and
// returns endpoints.
// defaultCapMultiple is the validator's fallback cumulative-investment
// cap multiplier (cap = defaultCapMultiple * wage) used when a request
// omits maxInvestment.
func SetupRouter(defaultCapMultiple float64) *gin.Engine {
	r := gin.Default()

	// Enable CORS — configurable via ALLOWED_ORIGINS env var.
	// Production: ALLOWED_ORIGINS=https://example.com
	// Development: leave empty for *.
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{bootTime: time.Now(), defaultCapMultiple: defaultCapMultiple}

	pub := r.Group("")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/performance", handler.handlePerformance)
	}

	// Rate-limit the parse, validator, filter and returns endpoints to 60
	// req/min per IP (burst=10): each does work that grows with the request
	// body, so these are the endpoints a flood would target.
	compute := r.Group("")
	compute.Use(NewRateLimiter(60, 10).Middleware())
	{
		compute.POST("/transactions:parse", handler.handleParse)
		compute.POST("/transactions:validator", handler.handleValidator)
		compute.POST("/transactions:filter", handler.handleFilter)
		compute.POST("/returns:nps", handler.handleReturns(returns.InstrumentNPS))
		compute.POST("/returns:index", handler.handleReturns(returns.InstrumentIndex))
	}

	return r
}

// handlePerformance reports wall time since boot and current process
// memory/goroutine counts (spec §6), grounded on the teacher's capability
// map response shape but with a body the teacher never had.
func (h *APIHandler) handlePerformance(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	elapsed := time.Since(h.bootTime)
	c.JSON(200, gin.H{
		"time":    strconv.FormatInt(elapsed.Milliseconds(), 10) + " ms",
		"memory":  strconv.FormatUint(mem.Alloc/(1024*1024), 10) + " MB",
		"threads": runtime.NumGoroutine(),
	})
}
