package report

import (
	"context"
	"sync"
	"time"
)

// ReportFunc delivers the daily report for one chat.
type ReportFunc func(ctx context.Context, chatID int64)

// Scheduler keeps at most one daily-report timer per chat. Setting a new
// time for a chat replaces (cancel + register) any previous timer for it.
type Scheduler struct {
	report ReportFunc
	now    func() time.Time

	mu     sync.Mutex
	jobs   map[int64]*job
	closed bool
}

type job struct {
	hour, minute int
	timer        *time.Timer
}

func NewScheduler(report ReportFunc) *Scheduler {
	return &Scheduler{
		report: report,
		now:    time.Now,
		jobs:   map[int64]*job{},
	}
}

// Set arms chatID's daily timer for the next HH:MM occurrence.
func (s *Scheduler) Set(chatID int64, hour, minute int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if old := s.jobs[chatID]; old != nil {
		old.timer.Stop()
	}
	j := &job{hour: hour, minute: minute}
	j.timer = time.AfterFunc(nextRunIn(s.now(), hour, minute), func() { s.fire(chatID, j) })
	s.jobs[chatID] = j
}

// Stop cancels the chat's timer; reports whether one was registered.
func (s *Scheduler) Stop(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	j := s.jobs[chatID]
	if j == nil {
		return false
	}
	j.timer.Stop()
	delete(s.jobs, chatID)
	return true
}

// Close cancels every timer; the scheduler cannot be reused after it.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, j := range s.jobs {
		j.timer.Stop()
		delete(s.jobs, id)
	}
}

// fire runs when armed's timer goes off. Stop races are possible: a
// callback already in flight when Set or Stop replaced the job must not
// report or re-arm, so the chat's registered job is compared against the
// one this timer was armed for.
func (s *Scheduler) fire(chatID int64, armed *job) {
	s.mu.Lock()
	j := s.jobs[chatID]
	if j != armed || s.closed {
		s.mu.Unlock()
		return
	}
	// Re-arm for the next day before running, so a slow report cannot
	// shift the schedule.
	j.timer = time.AfterFunc(nextRunIn(s.now(), j.hour, j.minute), func() { s.fire(chatID, j) })
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s.report(ctx, chatID)
}

// nextRunIn is the wait until the next wall-clock HH:MM, in now's location.
// A target at or before now rolls to tomorrow.
func nextRunIn(now time.Time, hour, minute int) time.Duration {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.Sub(now)
}
