package dto

import (
	"time"

	"github.com/spec-kit/department-summary/internal/domain"
)

// DepartmentResponse is one department of the current summary.
type DepartmentResponse struct {
	Name    string                    `json:"name"`
	Summary *domain.DepartmentSummary `json:"summary"`
}

// RefreshResponse reports the cycle started by POST /summary/refresh.
type RefreshResponse struct {
	CycleID     string                 `json:"cycleId"`
	FetchedAt   time.Time              `json:"fetchedAt"`
	Records     int                    `json:"records"`
	Departments int                    `json:"departments"`
	Skipped     []domain.SkippedRecord `json:"skipped"`
}

// NewRefreshResponse summarizes snap.
func NewRefreshResponse(snap *domain.Snapshot) RefreshResponse {
	return RefreshResponse{
		CycleID:     snap.CycleID,
		FetchedAt:   snap.FetchedAt,
		Records:     snap.Records,
		Departments: snap.Summary.Len(),
		Skipped:     snap.Skipped,
	}
}
