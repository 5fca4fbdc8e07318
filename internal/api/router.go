package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cmplus/unit-booking-backend/internal/availability"
	"github.com/cmplus/unit-booking-backend/internal/config"
	"github.com/cmplus/unit-booking-backend/internal/ics"
	icsHttp "github.com/cmplus/unit-booking-backend/internal/ics/http"
	"github.com/cmplus/unit-booking-backend/internal/quote"
	quoteHttp "github.com/cmplus/unit-booking-backend/internal/quote/http"
	"github.com/cmplus/unit-booking-backend/internal/unit"
	unitHttp "github.com/cmplus/unit-booking-backend/internal/unit/http"
)

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, admin guard)
// and registering routes for various modules.
func NewRouter(
	cfg *config.Config,
	repo unit.Repository,
	quoteService quote.Service,
	availService availability.Service,
	exporter ics.Exporter,
	importer ics.Importer,
) *gin.Engine {

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // booking widget dev server
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", AdminKeyHeader}
	r.Use(cors.New(corsConfig))

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	quoteHandler := quoteHttp.NewHandler(quoteService, availService)
	icsHandler := icsHttp.NewHandler(exporter, importer)
	unitHandler := unitHttp.NewHandler(repo)

	// The calendar feed lives outside /v1: external platforms keep the URL
	// in their own configuration and it must never move.
	icsHttp.RegisterFeedRoute(r, icsHandler)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		quoteHttp.RegisterRoutes(v1, quoteHandler)

		admin := v1.Group("/admin", RequireAdminKey(cfg.AdminKeyHash))
		{
			unitHttp.RegisterAdminRoutes(admin, unitHandler)
			icsHttp.RegisterAdminRoutes(admin, icsHandler)
		}
	}

	return r
}
