package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/bib/pkg/auth"
	"github.com/bibbank/bib/services/churn-service/internal/application/dto"
	"github.com/bibbank/bib/services/churn-service/internal/application/usecase"
	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
	"github.com/bibbank/bib/services/churn-service/internal/domain/service"
)

// requireRole checks that the caller has at least one of the given roles and
// returns their claims.
func requireRole(ctx context.Context, roles ...string) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	if !claims.HasAnyRole(roles...) {
		return nil, status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	return claims, nil
}

// Compile-time assertion that ChurnServiceHandler implements ChurnServiceServer.
var _ ChurnServiceServer = (*ChurnServiceHandler)(nil)

// ChurnServiceHandler implements the gRPC ChurnServiceServer interface.
type ChurnServiceHandler struct {
	UnimplementedChurnServiceServer
	useCases usecase.Set
	logger   *slog.Logger
}

// NewChurnServiceHandler creates a new gRPC handler.
func NewChurnServiceHandler(useCases usecase.Set, logger *slog.Logger) *ChurnServiceHandler {
	return &ChurnServiceHandler{useCases: useCases, logger: logger}
}

// Proto-aligned request/response message types.

// ScoreCustomerRequest represents the proto ScoreCustomerRequest message.
type ScoreCustomerRequest struct {
	Profile   *dto.CustomerProfile `json:"profile"`
	ModelName string               `json:"model_name"`
}

// ScoreCustomerResponse represents the proto ScoreCustomerResponse message.
type ScoreCustomerResponse struct {
	Result dto.ScoreCustomerResponse `json:"result"`
}

// GetBusinessOverviewRequest represents the proto GetBusinessOverviewRequest message.
type GetBusinessOverviewRequest struct{}

// GetBusinessOverviewResponse represents the proto GetBusinessOverviewResponse message.
type GetBusinessOverviewResponse struct {
	Overview dto.OverviewResponse `json:"overview"`
}

// CompareModelsRequest represents the proto CompareModelsRequest message.
type CompareModelsRequest struct{}

// CompareModelsResponse represents the proto CompareModelsResponse message.
type CompareModelsResponse struct {
	Comparison dto.CompareModelsResponse `json:"comparison"`
}

// ListModelsRequest represents the proto ListModelsRequest message.
type ListModelsRequest struct{}

// ListModelsResponse represents the proto ListModelsResponse message.
type ListModelsResponse struct {
	Models dto.ListModelsResponse `json:"models"`
}

// GetAssessmentRequest represents the proto GetAssessmentRequest message.
type GetAssessmentRequest struct {
	ID string `json:"id"`
}

// GetAssessmentResponse represents the proto GetAssessmentResponse message.
type GetAssessmentResponse struct {
	Assessment dto.AssessmentResponse `json:"assessment"`
}

// ListRecentAssessmentsRequest represents the proto ListRecentAssessmentsRequest message.
type ListRecentAssessmentsRequest struct {
	Limit int32 `json:"limit"`
}

// ListRecentAssessmentsResponse represents the proto ListRecentAssessmentsResponse message.
type ListRecentAssessmentsResponse struct {
	Assessments []dto.AssessmentResponse `json:"assessments"`
}

// LoginRequest represents the proto LoginRequest message.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the proto LoginResponse message.
type LoginResponse struct {
	Session dto.LoginResponse `json:"session"`
}

// ScoreCustomer scores one customer profile.
func (h *ChurnServiceHandler) ScoreCustomer(ctx context.Context, req *ScoreCustomerRequest) (*ScoreCustomerResponse, error) {
	claims, err := requireRole(ctx, auth.KnownRoles...)
	if err != nil {
		return nil, err
	}
	if req == nil || req.Profile == nil {
		return nil, status.Error(codes.InvalidArgument, "profile is required")
	}

	result, err := h.useCases.ScoreCustomer.Execute(ctx, dto.ScoreCustomerRequest{
		Profile:     *req.Profile,
		ModelName:   req.ModelName,
		RequestedBy: claims.Username,
		Roles:       claims.Roles,
	})
	if err != nil {
		return nil, h.toStatus(ctx, "score customer", err)
	}
	return &ScoreCustomerResponse{Result: result}, nil
}

// GetBusinessOverview returns the population figures.
func (h *ChurnServiceHandler) GetBusinessOverview(ctx context.Context, _ *GetBusinessOverviewRequest) (*GetBusinessOverviewResponse, error) {
	claims, err := requireRole(ctx, auth.KnownRoles...)
	if err != nil {
		return nil, err
	}

	overview, err := h.useCases.GetBusinessOverview.Execute(ctx, claims.Roles)
	if err != nil {
		return nil, h.toStatus(ctx, "get business overview", err)
	}
	return &GetBusinessOverviewResponse{Overview: overview}, nil
}

// CompareModels returns the model comparison table.
func (h *ChurnServiceHandler) CompareModels(ctx context.Context, _ *CompareModelsRequest) (*CompareModelsResponse, error) {
	if _, err := requireRole(ctx, auth.KnownRoles...); err != nil {
		return nil, err
	}
	return &CompareModelsResponse{Comparison: h.useCases.CompareModels.Execute(ctx)}, nil
}

// ListModels returns the selectable models.
func (h *ChurnServiceHandler) ListModels(ctx context.Context, _ *ListModelsRequest) (*ListModelsResponse, error) {
	if _, err := requireRole(ctx, auth.KnownRoles...); err != nil {
		return nil, err
	}
	return &ListModelsResponse{Models: h.useCases.ListModels.Execute(ctx)}, nil
}

// GetAssessment returns a stored assessment.
func (h *ChurnServiceHandler) GetAssessment(ctx context.Context, req *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	if _, err := requireRole(ctx, auth.KnownRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	assessment, err := h.useCases.GetAssessment.Execute(ctx, id)
	if err != nil {
		return nil, h.toStatus(ctx, "get assessment", err)
	}
	return &GetAssessmentResponse{Assessment: assessment}, nil
}

// ListRecentAssessments returns the newest stored assessments.
func (h *ChurnServiceHandler) ListRecentAssessments(ctx context.Context, req *ListRecentAssessmentsRequest) (*ListRecentAssessmentsResponse, error) {
	if _, err := requireRole(ctx, auth.RoleAdmin, auth.RoleAnalyst, auth.RoleManager); err != nil {
		return nil, err
	}

	var limit int
	if req != nil {
		limit = int(req.Limit)
	}

	result, err := h.useCases.ListRecentAssessments.Execute(ctx, limit)
	if err != nil {
		return nil, h.toStatus(ctx, "list assessments", err)
	}
	return &ListRecentAssessmentsResponse{Assessments: result.Assessments}, nil
}

// Login exchanges credentials for a bearer token. It is served without a token.
func (h *ChurnServiceHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	session, err := h.useCases.Login.Execute(ctx, dto.LoginRequest{Username: req.Username, Password: req.Password})
	if err != nil {
		return nil, h.toStatus(ctx, "login", err)
	}
	return &LoginResponse{Session: session}, nil
}

// toStatus maps use case errors onto gRPC status codes.
func (h *ChurnServiceHandler) toStatus(ctx context.Context, op string, err error) error {
	var (
		validationErr *dto.ValidationError
		encodingErr   *service.EncodingError
		unknownErr    *service.UnknownModelError
		scoringErr    *service.ScoringError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &encodingErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &unknownErr):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &scoringErr):
		return status.Error(codes.Internal, "model produced invalid output")
	case errors.Is(err, usecase.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, port.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, usecase.ErrAssessmentNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, usecase.ErrHistoryDisabled):
		return status.Error(codes.Unimplemented, err.Error())
	default:
		h.logger.ErrorContext(ctx, "request failed", slog.String("op", op), slog.String("error", err.Error()))
		return status.Error(codes.Internal, "internal error")
	}
}
