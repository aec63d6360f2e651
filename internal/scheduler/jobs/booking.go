package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"anoa.com/dispatchhub/internal/modules/work/repository"
)

// BookingActivationSpec fires 30 seconds past the top of every hour, after
// any bookings dated exactly on the hour have become visible.
const BookingActivationSpec = "30 0 * * * *"

// BookingActivationJob promotes bookings whose booking date falls inside the
// current hour into live works.
type BookingActivationJob struct {
	works repository.WorkRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewBookingActivationJob(works repository.WorkRepository, log zerolog.Logger) *BookingActivationJob {
	return &BookingActivationJob{
		works: works,
		log:   log.With().Str("job", "booking_activation").Logger(),
		now:   time.Now,
	}
}

func (j *BookingActivationJob) Name() string { return "booking_activation" }

func (j *BookingActivationJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// The hour boundary follows the local wall clock, so the window stays
	// aligned in zones with fractional UTC offsets.
	now := j.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	to := from.Add(time.Hour)

	bookings, err := j.works.ListBookingsBetween(ctx, from, to)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		return nil
	}

	// Each booking is promoted on its own so one bad row cannot hold the
	// rest of the batch hostage.
	promoted := 0
	for i := range bookings {
		if _, err := j.works.Promote(ctx, &bookings[i]); err != nil {
			j.log.Error().Err(err).Str("work_id", bookings[i].ID.String()).Msg("failed to promote booking")
			continue
		}
		promoted++
	}

	j.log.Info().Int("promoted", promoted).Int("total", len(bookings)).Msg("booking activation finished")
	return nil
}
