// ABOUTME: Named daily reminder triggers backed by the gron scheduler.
// ABOUTME: Supports scheduling, cancel-by-name, and next-fire computation for display.
package reminders

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"github.com/roylee0704/gron/xtime"
	"github.com/rs/zerolog"

	"github.com/2389-research/mood/internal/config"
)

// DefaultTitle and DefaultBody are the text of every reminder notification.
const (
	DefaultTitle = "Mood"
	DefaultBody  = "How are you feeling right now?"
)

// Trigger is a named time of day that repeats daily.
type Trigger struct {
	Name   string
	Hour   int
	Minute int
}

// ParseTrigger builds a trigger from a name and an "HH:MM" clock string.
func ParseTrigger(name, clock string) (Trigger, error) {
	if name == "" {
		return Trigger{}, fmt.Errorf("reminder name is required")
	}
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return Trigger{}, fmt.Errorf("invalid time %q (expected HH:MM)", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Trigger{}, fmt.Errorf("invalid hour in %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Trigger{}, fmt.Errorf("invalid minute in %q", clock)
	}
	return Trigger{Name: name, Hour: h, Minute: m}, nil
}

// Clock formats the trigger time as "HH:MM".
func (t Trigger) Clock() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// NextFire returns the first occurrence of the trigger strictly after now,
// in now's location.
func (t Trigger) NextFire(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Scheduler fires a notification for each registered trigger once a day.
//
// gron has no way to remove a job, so any change to the trigger set stops
// the running cron and starts a fresh one with the remaining triggers.
type Scheduler struct {
	notifier Notifier
	log      zerolog.Logger

	mu       sync.Mutex
	triggers map[string]Trigger
	cron     *gron.Cron
	running  bool
}

// NewScheduler creates a stopped scheduler that delivers through notifier.
func NewScheduler(notifier Notifier, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		log:      log,
		triggers: make(map[string]Trigger),
	}
}

// Schedule adds triggers, replacing any existing trigger with the same name.
func (s *Scheduler) Schedule(triggers ...Trigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range triggers {
		s.triggers[t.Name] = t
		s.log.Debug().Str("reminder", t.Name).Str("at", t.Clock()).Msg("reminder scheduled")
	}
	s.restartLocked()
}

// Cancel removes the trigger with the given name. Unknown names are ignored.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.triggers[name]; !ok {
		return
	}
	delete(s.triggers, name)
	s.log.Debug().Str("reminder", name).Msg("reminder cancelled")
	s.restartLocked()
}

// CancelAll removes every trigger.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers = make(map[string]Trigger)
	s.restartLocked()
}

// Triggers returns the registered triggers ordered by time of day.
func (s *Scheduler) Triggers() []Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Trigger, 0, len(s.triggers))
	for _, t := range s.triggers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		if out[i].Minute != out[j].Minute {
			return out[i].Minute < out[j].Minute
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Start begins firing reminders.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.restartLocked()
}

// Stop halts the scheduler. Registered triggers are kept.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.stopCronLocked()
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	<-ctx.Done()
	s.Stop()
	return nil
}

// Fire delivers the notification for a trigger immediately.
func (s *Scheduler) Fire(ctx context.Context, t Trigger) {
	if err := s.notifier.Notify(ctx, DefaultTitle, DefaultBody); err != nil {
		s.log.Error().Err(err).Str("reminder", t.Name).Msg("failed to deliver reminder")
		return
	}
	s.log.Info().Str("reminder", t.Name).Msg("reminder delivered")
}

func (s *Scheduler) restartLocked() {
	s.stopCronLocked()
	if !s.running || len(s.triggers) == 0 {
		return
	}
	c := gron.New()
	for _, t := range s.triggers {
		trigger := t
		c.AddFunc(gron.Every(1*xtime.Day).At(trigger.Clock()), func() {
			s.Fire(context.Background(), trigger)
		})
	}
	c.Start()
	s.cron = c
}

func (s *Scheduler) stopCronLocked() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

// TriggersFromSlots converts the active reminder slots of a config.
func TriggersFromSlots(cfg config.RemindersConfig) ([]Trigger, error) {
	slots := cfg.ActiveSlots()
	out := make([]Trigger, 0, len(slots))
	for _, slot := range slots {
		t, err := ParseTrigger(slot.Name, slot.At)
		if err != nil {
			return nil, fmt.Errorf("reminder %s: %w", slot.Name, err)
		}
		out = append(out, t)
	}
	return out, nil
}
