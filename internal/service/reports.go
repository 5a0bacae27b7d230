package service

import (
	"context"
	"fmt"

	"github.com/mtlprog/hrtask/internal/domain"
	"github.com/mtlprog/hrtask/internal/repository"
)

// RatingSeries returns average ratings of completed tasks bucketed by day or month.
func (s *TaskService) RatingSeries(ctx context.Context, filters repository.StatsFilters) ([]repository.RatingPoint, error) {
	if err := validatePeriod(filters); err != nil {
		return nil, err
	}
	return s.taskRepo.GetRatingSeries(ctx, filters)
}

// EmployeeStats returns per-employee completion statistics over a period.
func (s *TaskService) EmployeeStats(ctx context.Context, filters repository.StatsFilters) ([]repository.EmployeeStatsResult, error) {
	if err := validatePeriod(filters); err != nil {
		return nil, err
	}
	return s.taskRepo.GetEmployeeStats(ctx, filters)
}

func validatePeriod(filters repository.StatsFilters) error {
	if filters.PeriodStart.IsZero() || filters.PeriodEnd.IsZero() {
		return fmt.Errorf("%w: from and to are required", domain.ErrInvalidRatingPeriod)
	}
	if filters.PeriodEnd.Before(filters.PeriodStart) {
		return fmt.Errorf("%w: to is before from", domain.ErrInvalidRatingPeriod)
	}
	return nil
}
