// Package sweeper runs the periodic maintenance jobs that keep
// booking state consistent: releasing expired payment holds and
// marking played-out confirmed bookings as completed. Reads already
// exclude stale holds by time predicate, so the sweeps only bound how
// long stale rows linger; the system stays correct between runs.
package sweeper

import (
    "context"
    "log"
    "sync"
    "time"

    "github.com/go-co-op/gocron/v2"
    "github.com/google/uuid"

    "github.com/playspot/ground-reservation/internal/repository"
)

// Service owns the gocron scheduler and the registered sweep jobs.
type Service struct {
    scheduler  gocron.Scheduler
    bookings   *repository.BookingRepo
    holdWindow time.Duration
    stopOnce   sync.Once
    stopErr    error
}

// New builds the sweep service and registers its jobs: the expired
// hold sweep every minute and the completion sweep every hour.
func New(bookings *repository.BookingRepo, holdWindow time.Duration) (*Service, error) {
    if bookings == nil {
        panic("nil repository passed to sweeper.New")
    }
    sched, err := gocron.NewScheduler(
        gocron.WithGlobalJobOptions(
            gocron.WithEventListeners(
                gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
                    log.Printf("sweeper: job %s (%s) panicked: %v", jobName, jobID, recoverData)
                }),
            ),
        ),
    )
    if err != nil {
        return nil, err
    }
    s := &Service{scheduler: sched, bookings: bookings, holdWindow: holdWindow}

    if _, err := sched.NewJob(
        gocron.DurationJob(time.Minute),
        gocron.NewTask(s.sweepExpired),
        gocron.WithName("expire-stale-holds"),
    ); err != nil {
        return nil, err
    }
    if _, err := sched.NewJob(
        gocron.DurationJob(time.Hour),
        gocron.NewTask(s.sweepCompleted),
        gocron.WithName("complete-played-bookings"),
    ); err != nil {
        return nil, err
    }
    return s, nil
}

// Start begins running the sweep jobs.
func (s *Service) Start() {
    log.Printf("sweeper: starting (hold window %s)", s.holdWindow)
    s.scheduler.Start()
}

// Stop shuts the scheduler down and waits for running jobs.
func (s *Service) Stop() error {
    s.stopOnce.Do(func() {
        log.Printf("sweeper: stopping")
        s.stopErr = s.scheduler.Shutdown()
    })
    return s.stopErr
}

func (s *Service) sweepExpired() {
    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()
    n, err := s.bookings.SweepExpired(ctx, s.holdWindow)
    if err != nil {
        log.Printf("sweeper: expire sweep failed: %v", err)
        return
    }
    if n > 0 {
        log.Printf("sweeper: expired %d stale pending bookings", n)
    }
}

func (s *Service) sweepCompleted() {
    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()
    n, err := s.bookings.SweepCompleted(ctx)
    if err != nil {
        log.Printf("sweeper: completion sweep failed: %v", err)
        return
    }
    if n > 0 {
        log.Printf("sweeper: completed %d played-out bookings", n)
    }
}
