package testutil

import (
	"time"

	"github.com/google/uuid"
)

// Fixed values for deterministic tests.
var (
	TestAssessmentID1 = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	TestAssessmentID2 = uuid.MustParse("00000000-0000-0000-0000-000000000102")
	TestScoredAt      = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
)
