package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bibbank/bib/services/churn-service/internal/application/dto"
	"github.com/bibbank/bib/services/churn-service/internal/domain/port"
)

// GetAssessment is the use case for retrieving a stored assessment.
type GetAssessment struct {
	repo port.AssessmentRepository
}

// NewGetAssessment creates a new GetAssessment use case. A nil repo disables it.
func NewGetAssessment(repo port.AssessmentRepository) *GetAssessment {
	return &GetAssessment{repo: repo}
}

// Execute retrieves an assessment by ID.
func (uc *GetAssessment) Execute(ctx context.Context, id uuid.UUID) (dto.AssessmentResponse, error) {
	if uc.repo == nil {
		return dto.AssessmentResponse{}, ErrHistoryDisabled
	}

	assessment, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to find assessment: %w", err)
	}
	if assessment == nil {
		return dto.AssessmentResponse{}, fmt.Errorf("%w: %s", ErrAssessmentNotFound, id)
	}

	return dto.FromModel(assessment), nil
}

// ListRecentAssessments is the use case for the assessment history view.
type ListRecentAssessments struct {
	repo port.AssessmentRepository
}

// NewListRecentAssessments creates a new ListRecentAssessments use case.
func NewListRecentAssessments(repo port.AssessmentRepository) *ListRecentAssessments {
	return &ListRecentAssessments{repo: repo}
}

// DefaultListLimit applies when the caller does not ask for a page size.
const DefaultListLimit = 50

// Execute returns the newest assessments first.
func (uc *ListRecentAssessments) Execute(ctx context.Context, limit int) (dto.ListAssessmentsResponse, error) {
	if uc.repo == nil {
		return dto.ListAssessmentsResponse{}, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	assessments, err := uc.repo.ListRecent(ctx, limit)
	if err != nil {
		return dto.ListAssessmentsResponse{}, fmt.Errorf("failed to list assessments: %w", err)
	}

	resp := dto.ListAssessmentsResponse{Assessments: make([]dto.AssessmentResponse, 0, len(assessments))}
	for _, a := range assessments {
		resp.Assessments = append(resp.Assessments, dto.FromModel(a))
	}
	return resp, nil
}
