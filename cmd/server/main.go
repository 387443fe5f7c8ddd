package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/creditbridge/credit-risk-engine/internal/analytics"
	"github.com/creditbridge/credit-risk-engine/internal/cache"
	"github.com/creditbridge/credit-risk-engine/internal/config"
	"github.com/creditbridge/credit-risk-engine/internal/database"
	apperrors "github.com/creditbridge/credit-risk-engine/internal/errors"
	"github.com/creditbridge/credit-risk-engine/internal/monitoring"
	"github.com/creditbridge/credit-risk-engine/internal/ratelimit"
	"github.com/creditbridge/credit-risk-engine/internal/scoring"
	"github.com/creditbridge/credit-risk-engine/internal/security"
	"github.com/creditbridge/credit-risk-engine/internal/types"
)

// application wires the engine's services together for the HTTP layer.
type application struct {
	cfg         *config.Config
	db          *database.DB
	auth        *database.AuthService
	assessments *database.AssessmentService
	analytics   *analytics.Service
	model       *scoring.ModelContext
	limiter     *ratelimit.RateLimiter
	cache       *cache.Cache
	metrics     *monitoring.Metrics
	logger      *monitoring.Logger
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.NewConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	app, err := newApplication(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer app.db.Close()

	// Load persisted model artifacts if present; a missing model is
	// fine, the first prediction trains lazily. A corrupted artifact
	// is fatal at boot so operators notice immediately.
	if loaded, err := app.model.Load(); err != nil {
		app.logger.ArtifactLogger("load", "model", false)
		slog.Error("Failed to load model artifacts", "error", err)
		os.Exit(1)
	} else if loaded {
		app.logger.ArtifactLogger("load", "model", true)
		slog.Info("Model artifacts loaded", "state", app.model.State().String())
	} else {
		slog.Info("No persisted model, will train on first prediction")
	}

	stopRefresh := app.analytics.StartAutoRefresh(10 * time.Minute)
	defer stopRefresh()

	router := app.buildRouter()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func newApplication(cfg *config.Config) (*application, error) {
	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	repo := database.NewRepository(db)
	auth := database.NewAuthService(repo, cfg.JWTSecret)
	if err := auth.SeedEmployees(); err != nil {
		return nil, err
	}

	store := scoring.NewArtifactStore(cfg.DataDir)
	model := scoring.NewModelContext(store, cfg.TrainSamples, cfg.TrainSeed)
	predictor := scoring.NewPredictor(model)

	redisClient := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	limiterCfg := ratelimit.DefaultConfig()
	limiterCfg.IPLimitPerMin = cfg.RateLimitMin

	return &application{
		cfg:         cfg,
		db:          db,
		auth:        auth,
		assessments: database.NewAssessmentService(repo, predictor),
		analytics:   analytics.NewService(repo, cfg.CacheTTL),
		model:       model,
		limiter:     ratelimit.NewRateLimiter(redisClient, limiterCfg),
		cache:       cache.NewCache(cfg.CacheTTL),
		metrics:     monitoring.NewMetrics(),
		logger:      monitoring.NewLogger(),
	}, nil
}

func (app *application) buildRouter() *gin.Engine {
	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(app.metrics, app.logger))
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(security.SecurityHeadersMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(app.limiter.IPRateLimitMiddleware(app.metrics))

	r.GET("/health", app.handleHealth)
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, app.metrics.GetStats())
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", app.handleLogin)

	authed := v1.Group("", security.AuthRequired(app.auth))

	assessments := authed.Group("/assessments")
	assessments.POST("", security.RequirePermission(database.PermissionCreate), app.handleCreateAssessment)
	assessments.GET("", security.RequirePermission(database.PermissionViewAll), app.handleListAssessments)
	assessments.GET("/:id", security.RequirePermission(database.PermissionViewAll), app.handleGetAssessment)
	assessments.DELETE("/:id", security.RequirePermission(database.PermissionAll), app.handleDeleteAssessment)

	analyticsGroup := authed.Group("/analytics",
		security.RequirePermission(database.PermissionAnalytics),
		app.cache.Middleware(app.metrics))
	analyticsGroup.GET("/summary", app.handleAnalyticsSummary)
	analyticsGroup.GET("/dashboard", app.handleDashboard)

	// Retraining is expensive, so it carries its own tight limit on
	// top of the global IP limit.
	authed.POST("/model/train",
		security.RequirePermission(database.PermissionAll),
		app.limiter.EndpointRateLimitMiddleware("train", 2, app.metrics),
		app.handleTrain)

	return r
}

func (app *application) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().Format(time.RFC3339),
		"version":     "1.0.0",
		"model_state": app.model.State().String(),
		"database":    app.db.GetPoolStats(),
		"rate_limit":  app.limiter.GetStats(),
		"cache":       app.cache.Stats(),
	})
}

func (app *application) handleLogin(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("username and password are required"))
		return
	}

	token, employee, err := app.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrInvalidCredentials) {
			c.Error(apperrors.NewAuthError("invalid username or password", nil))
		} else {
			c.Error(apperrors.NewInternalError("login failed", err))
		}
		return
	}

	c.JSON(http.StatusOK, types.LoginResponse{
		Token:    token,
		Username: employee.Username,
		FullName: employee.FullName,
		Role:     employee.Role,
		Perms:    employee.Permissions,
	})
}

func (app *application) handleCreateAssessment(c *gin.Context) {
	var req types.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	employeeID := c.GetString(security.ContextEmployeeIDKey)

	start := time.Now()
	report, err := app.assessments.Create(database.AssessmentInput{
		ApplicantName:  req.ApplicantName,
		ApplicantEmail: req.ApplicantEmail,
		ApplicantPhone: req.ApplicantPhone,
		SelfEmployed:   req.SelfEmployed,
		Profile:        req.Profile(),
	}, employeeID)
	if err != nil {
		c.Error(apperrors.ToAppError(err))
		return
	}

	app.metrics.IncrementPrediction()
	app.logger.ScoringLogger(
		report.Assessment.CreditScore,
		report.Assessment.RiskCategory,
		report.Assessment.RepaymentProbability,
		time.Since(start))

	// Aggregates changed; drop cached analytics views.
	app.cache.Clear()
	app.analytics.Invalidate()

	c.JSON(http.StatusCreated, report)
}

func (app *application) handleGetAssessment(c *gin.Context) {
	report, err := app.assessments.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(apperrors.NewNotFoundError("assessment"))
		} else {
			c.Error(apperrors.ToAppError(err))
		}
		return
	}
	c.JSON(http.StatusOK, report)
}

func (app *application) handleListAssessments(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.Error(apperrors.NewValidationError("limit must be an integer"))
			return
		}
		limit = parsed
	}

	list, err := app.assessments.List(limit)
	if err != nil {
		c.Error(apperrors.ToAppError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"assessments": list,
		"count":       len(list),
	})
}

func (app *application) handleDeleteAssessment(c *gin.Context) {
	err := app.assessments.Delete(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.Error(apperrors.NewNotFoundError("assessment"))
		} else {
			c.Error(apperrors.ToAppError(err))
		}
		return
	}

	app.cache.Clear()
	app.analytics.Invalidate()

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (app *application) handleAnalyticsSummary(c *gin.Context) {
	summary, err := app.analytics.Summary()
	if err != nil {
		c.Error(apperrors.ToAppError(err))
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (app *application) handleDashboard(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.Error(apperrors.NewValidationError("days must be an integer"))
			return
		}
		days = parsed
	}

	dashboard, err := app.analytics.Dashboard(days, 20)
	if err != nil {
		c.Error(apperrors.ToAppError(err))
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (app *application) handleTrain(c *gin.Context) {
	var req types.TrainRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperrors.NewValidationError("invalid request body", err.Error()))
			return
		}
	}

	samples := req.Samples
	if samples <= 0 {
		samples = app.cfg.TrainSamples
	}

	start := time.Now()
	report, err := app.model.Train(samples)
	if err != nil {
		c.Error(apperrors.ToAppError(err))
		return
	}

	app.metrics.IncrementTrainingRun()
	app.logger.TrainingLogger(report.Samples, report.Accuracy, time.Since(start))
	app.logger.ArtifactLogger("save", "model", true)

	c.JSON(http.StatusOK, gin.H{
		"model_state": app.model.State().String(),
		"report":      report,
	})
}
