// Package rest serves the churn dashboard API over HTTP.
package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bibbank/bib/pkg/auth"
	"github.com/bibbank/bib/services/churn-service/internal/application/dto"
	"github.com/bibbank/bib/services/churn-service/internal/application/usecase"
	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
)

// Handler routes dashboard requests to the use cases.
type Handler struct {
	useCases usecase.Set
	router   *gin.Engine
	jwt      *auth.JWTService
	health   *HealthHandler
	metrics  http.Handler
	limiter  *RateLimiter
	logger   *slog.Logger
}

// NewHandler creates the HTTP handler. metrics may be nil, in which case
// /metrics is not served. loginLimiter throttles POST /v1/login per client;
// nil disables throttling.
func NewHandler(
	useCases usecase.Set,
	jwtService *auth.JWTService,
	health *HealthHandler,
	metrics http.Handler,
	loginLimiter *RateLimiter,
	logger *slog.Logger,
) *Handler {
	h := &Handler{
		useCases: useCases,
		router:   gin.New(),
		jwt:      jwtService,
		health:   health,
		metrics:  metrics,
		limiter:  loginLimiter,
		logger:   logger,
	}
	h.router.Use(gin.Recovery(), requestLogger(logger))

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/healthz", h.health.Healthz)
	h.router.GET("/readyz", h.health.Readyz)
	if h.metrics != nil {
		h.router.GET("/metrics", gin.WrapH(h.metrics))
	}

	v1 := h.router.Group("/v1")
	v1.POST("/login", rateLimit(h.limiter), h.login)

	authed := v1.Group("", authenticate(h.jwt), requireRole(auth.KnownRoles...))
	authed.POST("/assessments", h.scoreCustomer)
	authed.GET("/assessments/:id", h.getAssessment)
	authed.GET("/assessments", requireRole(auth.RoleAdmin, auth.RoleAnalyst, auth.RoleManager), h.listAssessments)
	authed.GET("/overview", h.getOverview)
	authed.GET("/models", h.listModels)
	authed.GET("/models/comparison", h.compareModels)
}

// login handles POST /v1/login
func (h *Handler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	session, err := h.useCases.Login.Execute(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// scoreCustomer handles POST /v1/assessments
func (h *Handler) scoreCustomer(c *gin.Context) {
	var req dto.ScoreCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	claims := claimsOf(c)
	req.RequestedBy = claims.Username
	req.Roles = claims.Roles

	result, err := h.useCases.ScoreCustomer.Execute(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "score customer", err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// getAssessment handles GET /v1/assessments/:id
func (h *Handler) getAssessment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_id",
			Message: err.Error(),
		})
		return
	}

	assessment, err := h.useCases.GetAssessment.Execute(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get assessment", err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// listAssessments handles GET /v1/assessments?limit=N
func (h *Handler) listAssessments(c *gin.Context) {
	var limit int
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "validation_error",
				Message: "limit must be a non-negative integer",
			})
			return
		}
		limit = n
	}

	result, err := h.useCases.ListRecentAssessments.Execute(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, "list assessments", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// getOverview handles GET /v1/overview
func (h *Handler) getOverview(c *gin.Context) {
	overview, err := h.useCases.GetBusinessOverview.Execute(c.Request.Context(), claimsOf(c).Roles)
	if err != nil {
		h.writeError(c, "get business overview", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// listModels handles GET /v1/models
func (h *Handler) listModels(c *gin.Context) {
	c.JSON(http.StatusOK, h.useCases.ListModels.Execute(c.Request.Context()))
}

// compareModels handles GET /v1/models/comparison
func (h *Handler) compareModels(c *gin.Context) {
	c.JSON(http.StatusOK, h.useCases.CompareModels.Execute(c.Request.Context()))
}

// writeError maps use case errors onto HTTP responses.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	var (
		validationErr *dto.ValidationError
		encodingErr   *service.EncodingError
		unknownErr    *service.UnknownModelError
		scoringErr    *service.ScoringError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
	case errors.As(err, &encodingErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "encoding_error", Message: err.Error()})
	case errors.As(err, &unknownErr):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "unknown_model", Message: err.Error()})
	case errors.As(err, &scoringErr):
		// Logged by the use case with the model name.
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "scoring_error",
			Message: "model produced invalid output",
		})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "forbidden", Message: err.Error()})
	case errors.Is(err, port.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid_credentials", Message: err.Error()})
	case errors.Is(err, usecase.ErrAssessmentNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, usecase.ErrHistoryDisabled):
		c.JSON(http.StatusNotImplemented, dto.ErrorResponse{Error: "history_disabled", Message: err.Error()})
	default:
		h.logger.ErrorContext(c.Request.Context(), "request failed",
			slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error"})
	}
}
