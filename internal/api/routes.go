package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/each4all/shinchon-saessaks-sub000/internal/api/handlers"
	"github.com/each4all/shinchon-saessaks-sub000/internal/api/middleware"
	"github.com/each4all/shinchon-saessaks-sub000/internal/content"
	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
	"github.com/each4all/shinchon-saessaks-sub000/internal/services"
	"github.com/each4all/shinchon-saessaks-sub000/pkg/metrics"
)

type Router struct {
	engine         *gin.Engine
	logger         *zap.Logger
	metrics        *metrics.MetricsCollector
	authHandler    *handlers.AuthHandler
	posts          *handlers.ContentHandler[models.ClassPost, *models.ClassPost]
	schedules      *handlers.ContentHandler[models.ClassSchedule, *models.ClassSchedule]
	meals          *handlers.ContentHandler[models.MealPlan, *models.MealPlan]
	bulletins      *handlers.ContentHandler[models.NutritionBulletin, *models.NutritionBulletin]
	parentEd       *handlers.ContentHandler[models.ParentEdPost, *models.ParentEdPost]
	authMiddleware *middleware.AuthMiddleware
	reqMiddleware  *middleware.RequestMiddleware
}

func NewRouter(
	logger *zap.Logger,
	mc *metrics.MetricsCollector,
	sessions *services.SessionService,
	viewers *services.ViewerService,
	repos *content.Repositories,
	db *gorm.DB,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	reqMiddleware := middleware.NewRequestMiddleware(logger, mc)
	authMiddleware := middleware.NewAuthMiddleware(sessions, viewers, logger)

	engine.Use(reqMiddleware.ProcessRequest())
	engine.Use(reqMiddleware.RecoverPanic())
	engine.Use(reqMiddleware.LoginAttemptMiddleware())
	engine.Use(authMiddleware.ResolveViewer())

	return &Router{
		engine:         engine,
		logger:         logger,
		metrics:        mc,
		authHandler:    handlers.NewAuthHandler(sessions, db, logger),
		posts:          handlers.NewContentHandler(repos.ClassPosts, logger),
		schedules:      handlers.NewContentHandler(repos.Schedules, logger),
		meals:          handlers.NewContentHandler(repos.MealPlans, logger),
		bulletins:      handlers.NewContentHandler(repos.Bulletins, logger),
		parentEd:       handlers.NewContentHandler(repos.ParentEdPosts, logger),
		authMiddleware: authMiddleware,
		reqMiddleware:  reqMiddleware,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up", "name": "saessak-portal"})
	})

	r.engine.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"counters":  r.metrics.GetCounters(),
			"latencies": r.metrics.GetLatencies(),
			"sizes":     r.metrics.GetSizes(),
		})
	})

	r.engine.POST("/login", r.authHandler.Login)
	r.engine.GET("/logout", r.authHandler.Logout)

	apiGroup := r.engine.Group("/api")
	r.posts.Register(apiGroup.Group("/posts"), r.authMiddleware)
	r.schedules.Register(apiGroup.Group("/schedules"), r.authMiddleware)
	r.meals.Register(apiGroup.Group("/meals"), r.authMiddleware)
	r.bulletins.Register(apiGroup.Group("/bulletins"), r.authMiddleware)
	r.parentEd.Register(apiGroup.Group("/parent-ed"), r.authMiddleware)
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) Run(addr string) error {
	r.logger.Info("Starting HTTP server", zap.String("address", addr))
	return r.engine.Run(addr)
}
