package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/dispatchhub/internal/model"
	"anoa.com/dispatchhub/internal/modules/work/dto"
	"anoa.com/dispatchhub/internal/modules/work/repository"
	"anoa.com/dispatchhub/pkg/apperror"
	"anoa.com/dispatchhub/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// completedEditWindow is how long a completed work stays editable. The
// driver UI hides its triggers after this long, but the server enforces
// the cutoff on its own.
const completedEditWindow = 24 * time.Hour

type WorkService interface {
	Create(ctx context.Context, input dto.CreateWorkInput) (*dto.WorkResponse, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdateWorkInput) (*dto.WorkResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q dto.ListWorksQuery) ([]dto.WorkResponse, error)

	// SetState applies a driver-triggered lifecycle transition
	// (checked or completed) on the driver's own work.
	SetState(ctx context.Context, driverID, workID uuid.UUID, state string) (*dto.WorkResponse, error)
	// ForceActivate promotes a booking to live work immediately,
	// bypassing the hourly schedule. Contractor only.
	ForceActivate(ctx context.Context, workID uuid.UUID) (*dto.WorkResponse, error)
	// ForceComplete stamps the end time regardless of check state, the
	// escape hatch for correcting missed driver actions. Contractor only.
	ForceComplete(ctx context.Context, workID uuid.UUID) (*dto.WorkResponse, error)

	Feed(ctx context.Context, driverID uuid.UUID) ([]dto.WorkResponse, error)
	CompletedBetween(ctx context.Context, driverID uuid.UUID, q dto.ListWorksQuery) ([]dto.WorkResponse, error)
	Analysis(ctx context.Context, driverID uuid.UUID, by string) (map[string]float64, error)
	UncompletedForUser(ctx context.Context, userID uuid.UUID) ([]dto.WorkResponse, error)
}

type workService struct {
	repo           repository.WorkRepository
	commissionRate float64
}

func NewWorkService(repo repository.WorkRepository, commissionRate float64) WorkService {
	return &workService{
		repo:           repo,
		commissionRate: commissionRate,
	}
}

func (s *workService) Create(ctx context.Context, input dto.CreateWorkInput) (*dto.WorkResponse, error) {
	work := model.Work{
		UserID:      input.UserID,
		Origin:      input.Origin,
		Waypoint:    input.Waypoint,
		Destination: input.Destination,
		CarModel:    input.CarModel,
		Charge:      input.Charge,
		Adjustment:  input.Adjustment,
		Subsidy:     input.Subsidy,
		PaymentType: input.PaymentType,
		Remark:      input.Remark,
		BookingDate: input.BookingDate,
	}

	if err := s.repo.Create(ctx, &work); err != nil {
		return nil, err
	}

	res := withPayout(work, s.commissionRate)
	return &res, nil
}

func (s *workService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateWorkInput) (*dto.WorkResponse, error) {
	work, err := s.findWork(ctx, id)
	if err != nil {
		return nil, err
	}
	if work.CompletedBefore(time.Now(), completedEditWindow) {
		return nil, apperror.Forbidden("completed work can no longer be edited")
	}

	work.UserID = input.UserID
	work.Origin = input.Origin
	work.Waypoint = input.Waypoint
	work.Destination = input.Destination
	work.CarModel = input.CarModel
	work.Charge = input.Charge
	work.Adjustment = input.Adjustment
	work.Subsidy = input.Subsidy
	work.PaymentType = input.PaymentType
	work.Remark = input.Remark
	work.BookingDate = input.BookingDate

	if err := s.repo.Save(ctx, work); err != nil {
		return nil, err
	}

	res := withPayout(*work, s.commissionRate)
	return &res, nil
}

func (s *workService) Delete(ctx context.Context, id uuid.UUID) error {
	work, err := s.findWork(ctx, id)
	if err != nil {
		return err
	}
	if work.CompletedBefore(time.Now(), completedEditWindow) {
		return apperror.Forbidden("completed work can no longer be edited")
	}
	return s.repo.Delete(ctx, work)
}

func (s *workService) List(ctx context.Context, q dto.ListWorksQuery) ([]dto.WorkResponse, error) {
	now := time.Now()

	if q.Booked {
		works, err := s.repo.ListBooked(ctx, now)
		if err != nil {
			return nil, err
		}
		return withPayoutAll(works, s.commissionRate), nil
	}

	from, to := parseDateRange(q.StartDate, q.EndDate, now)
	works, err := s.repo.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return withPayoutAll(works, s.commissionRate), nil
}

func (s *workService) SetState(ctx context.Context, driverID, workID uuid.UUID, state string) (*dto.WorkResponse, error) {
	work, err := s.findWork(ctx, workID)
	if err != nil {
		return nil, err
	}
	if !work.IsAssignedTo(driverID) {
		return nil, apperror.Forbidden("this work is assigned to another driver")
	}

	now := time.Now()
	if work.CompletedBefore(now, completedEditWindow) {
		return nil, apperror.Forbidden("completed work can no longer be edited")
	}

	switch state {
	case "checked":
		if work.EndTime != nil {
			return nil, apperror.Conflict("this work is already completed")
		}
		if work.CheckTime != nil {
			return nil, apperror.Conflict("this work is already checked")
		}
		work.CheckTime = &now
	case "completed":
		if work.EndTime != nil {
			return nil, apperror.Conflict("this work is already completed")
		}
		if work.CheckTime == nil {
			return nil, apperror.BadRequest("this work has not been checked yet")
		}
		work.EndTime = &now
	default:
		return nil, apperror.BadRequest(fmt.Sprintf("unknown work state %q", state))
	}

	if err := s.repo.Save(ctx, work); err != nil {
		return nil, err
	}

	res := withPayout(*work, s.commissionRate)
	return &res, nil
}

func (s *workService) ForceActivate(ctx context.Context, workID uuid.UUID) (*dto.WorkResponse, error) {
	work, err := s.findWork(ctx, workID)
	if err != nil {
		return nil, err
	}
	if work.BookingDate == nil {
		return nil, apperror.BadRequest("this work is not a booking")
	}

	work.BookingDate = nil
	if err := s.repo.Save(ctx, work); err != nil {
		return nil, err
	}

	res := withPayout(*work, s.commissionRate)
	return &res, nil
}

func (s *workService) ForceComplete(ctx context.Context, workID uuid.UUID) (*dto.WorkResponse, error) {
	work, err := s.findWork(ctx, workID)
	if err != nil {
		return nil, err
	}
	if work.EndTime != nil {
		return nil, apperror.Conflict("this work is already completed")
	}

	now := time.Now()
	work.EndTime = &now
	if err := s.repo.Save(ctx, work); err != nil {
		return nil, err
	}

	res := withPayout(*work, s.commissionRate)
	return &res, nil
}

func (s *workService) Feed(ctx context.Context, driverID uuid.UUID) ([]dto.WorkResponse, error) {
	todayStart := startOfDay(time.Now())
	works, err := s.repo.ListFeedForDriver(ctx, driverID, todayStart)
	if err != nil {
		return nil, err
	}
	return withPayoutAll(works, s.commissionRate), nil
}

func (s *workService) CompletedBetween(ctx context.Context, driverID uuid.UUID, q dto.ListWorksQuery) ([]dto.WorkResponse, error) {
	from, to := parseDateRange(q.StartDate, q.EndDate, time.Now())
	works, err := s.repo.ListCompletedForDriver(ctx, driverID, from, to)
	if err != nil {
		return nil, err
	}
	return withPayoutAll(works, s.commissionRate), nil
}

// Analysis sums payout minus fee over the driver's completed works, keyed by
// check-time day of the current month (by=day) or month of the current year
// (by=month). Every key of the period is present, zero-filled.
func (s *workService) Analysis(ctx context.Context, driverID uuid.UUID, by string) (map[string]float64, error) {
	now := time.Now()

	var since time.Time
	if by == "month" {
		since = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	} else {
		by = "day"
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}

	works, err := s.repo.ListCompletedSince(ctx, driverID, since)
	if err != nil {
		return nil, err
	}

	result := make(map[string]float64)
	if by == "month" {
		for m := 1; m <= 12; m++ {
			result[fmt.Sprintf("%d", m)] = 0
		}
	} else {
		lastDay := now.AddDate(0, 1, -now.Day()).Day()
		for d := 1; d <= lastDay; d++ {
			result[fmt.Sprintf("%d", d)] = 0
		}
	}

	for _, w := range works {
		if w.CheckTime == nil {
			continue
		}
		payout, fee := CalculatePayout(&w, s.commissionRate)

		var key string
		if by == "month" {
			key = fmt.Sprintf("%d", int(w.CheckTime.Month()))
		} else {
			key = fmt.Sprintf("%d", w.CheckTime.Day())
		}
		result[key] = money.Add(result[key], payout-fee)
	}

	return result, nil
}

func (s *workService) UncompletedForUser(ctx context.Context, userID uuid.UUID) ([]dto.WorkResponse, error) {
	works, err := s.repo.ListUncompletedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return withPayoutAll(works, s.commissionRate), nil
}

func (s *workService) findWork(ctx context.Context, id uuid.UUID) (*model.Work, error) {
	work, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("work %s not found", id))
		}
		return nil, err
	}
	return work, nil
}

// parseDateRange expands the optional YYYY-MM-DD pair into
// [startOfDay(start), endOfDay(end)], both defaulting to today.
func parseDateRange(startDate, endDate string, now time.Time) (time.Time, time.Time) {
	from := startOfDay(now)
	if startDate != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", startDate, now.Location()); err == nil {
			from = parsed
		}
	}

	to := endOfDay(now)
	if endDate != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", endDate, now.Location()); err == nil {
			to = endOfDay(parsed)
		}
	}

	return from, to
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
