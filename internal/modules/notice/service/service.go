package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"anoa.com/dispatchhub/internal/model"
	"anoa.com/dispatchhub/internal/modules/notice/dto"
	noticeRepo "anoa.com/dispatchhub/internal/modules/notice/repository"
	"anoa.com/dispatchhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// BroadcastChannel carries freshly created notices to connected driver
// clients over Redis pub/sub.
const BroadcastChannel = "notice_broadcast"

type NoticeService interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreateNoticeInput) (*model.Notice, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Notice, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdateNoticeInput) (*model.Notice, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.Notice, error)

	// ListForAdmin returns notices created within the query range, each
	// annotated with the IDs of every confirming driver.
	ListForAdmin(ctx context.Context, q dto.ListNoticesQuery) ([]dto.NoticeForContractor, error)
	// ListActiveForUser returns notices active today, each annotated with
	// whether the requesting driver has confirmed it.
	ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]dto.NoticeForDriver, error)
	// Confirm records the driver's acknowledgment. Confirming twice is not
	// an error: the second call reports created=false and returns the
	// original row untouched.
	Confirm(ctx context.Context, noticeID, userID uuid.UUID) (*model.NoticeConfirmation, bool, error)
}

type noticeService struct {
	repo        noticeRepo.NoticeRepository
	redisClient *redis.Client
}

func NewNoticeService(repo noticeRepo.NoticeRepository, redisClient *redis.Client) NoticeService {
	return &noticeService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *noticeService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreateNoticeInput) (*model.Notice, error) {
	startDate, endDate, err := parseWindow(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	notice := model.Notice{
		UserID:    authorID,
		Title:     input.Title,
		Content:   input.Content,
		StartDate: startDate,
		EndDate:   endDate,
	}

	if err := s.repo.Create(ctx, &notice); err != nil {
		return nil, err
	}

	s.broadcast(ctx, &notice)

	return &notice, nil
}

func (s *noticeService) Get(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	return s.findNotice(ctx, id)
}

func (s *noticeService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateNoticeInput) (*model.Notice, error) {
	notice, err := s.findNotice(ctx, id)
	if err != nil {
		return nil, err
	}

	startDate, endDate, err := parseWindow(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	notice.Title = input.Title
	notice.Content = input.Content
	notice.StartDate = startDate
	notice.EndDate = endDate

	if err := s.repo.Save(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

func (s *noticeService) Delete(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	notice, err := s.findNotice(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

func (s *noticeService) ListForAdmin(ctx context.Context, q dto.ListNoticesQuery) ([]dto.NoticeForContractor, error) {
	now := time.Now()
	from, to := parseDateRange(q.StartDate, q.EndDate, now)

	notices, err := s.repo.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]dto.NoticeForContractor, 0, len(notices))
	for _, n := range notices {
		confirmedUserIDs := make([]uuid.UUID, 0, len(n.Confirmations))
		for _, c := range n.Confirmations {
			confirmedUserIDs = append(confirmedUserIDs, c.UserID)
		}
		n.Confirmations = nil
		result = append(result, dto.NoticeForContractor{
			Notice:           n,
			ConfirmedUserIDs: confirmedUserIDs,
		})
	}
	return result, nil
}

func (s *noticeService) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]dto.NoticeForDriver, error) {
	notices, err := s.repo.ListActiveOn(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	result := make([]dto.NoticeForDriver, 0, len(notices))
	for _, n := range notices {
		isConfirmed := false
		for _, c := range n.Confirmations {
			if c.UserID == userID {
				isConfirmed = true
				break
			}
		}
		n.Confirmations = nil
		result = append(result, dto.NoticeForDriver{
			Notice:      n,
			IsConfirmed: isConfirmed,
		})
	}
	return result, nil
}

func (s *noticeService) Confirm(ctx context.Context, noticeID, userID uuid.UUID) (*model.NoticeConfirmation, bool, error) {
	if _, err := s.findNotice(ctx, noticeID); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindConfirmation(ctx, noticeID, userID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	confirmation := model.NoticeConfirmation{
		NoticeID: noticeID,
		UserID:   userID,
	}
	if err := s.repo.CreateConfirmation(ctx, &confirmation); err != nil {
		// A concurrent confirm may have won the unique index on
		// (notice_id, user_id); that is still idempotent success.
		if winner, findErr := s.repo.FindConfirmation(ctx, noticeID, userID); findErr == nil && winner != nil {
			return winner, false, nil
		}
		return nil, false, err
	}

	return &confirmation, true, nil
}

func (s *noticeService) findNotice(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("notice %s not found", id))
		}
		return nil, err
	}
	return notice, nil
}

func (s *noticeService) broadcast(ctx context.Context, notice *model.Notice) {
	if s.redisClient == nil {
		return
	}
	if payload, err := json.Marshal(notice); err == nil {
		s.redisClient.Publish(ctx, BroadcastChannel, payload)
	}
}

func parseWindow(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.BadRequest("start date must be formatted YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.BadRequest("end date must be formatted YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, apperror.BadRequest("end date must not precede start date")
	}
	return startDate, endDate, nil
}

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
