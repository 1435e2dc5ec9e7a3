// Package app wires the stores, the persister and the session engine together.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/verte-zerg/tuifit/internal/analytics"
	"github.com/verte-zerg/tuifit/internal/kv"
	"github.com/verte-zerg/tuifit/internal/logstore"
	"github.com/verte-zerg/tuifit/internal/metrics"
	"github.com/verte-zerg/tuifit/internal/model"
	"github.com/verte-zerg/tuifit/internal/persist"
	"github.com/verte-zerg/tuifit/internal/registry"
	"github.com/verte-zerg/tuifit/internal/session"
)

// ErrUnknownRoutine is returned when a routine id does not resolve.
var ErrUnknownRoutine = errors.New("unknown routine")

// Options configures Open.
type Options struct {
	Storage kv.Options
	// Backend, when set, is used instead of opening Storage. State takes ownership.
	Backend  kv.Backend
	Metrics  *metrics.Manager
	Logger   logrus.FieldLogger
	Feedback session.Feedback
	Session  model.Config
}

// State is the application state shared by every command and screen.
type State struct {
	Exercises *registry.Exercises
	Routines  *registry.Routines
	Logs      *logstore.Store
	Metrics   *metrics.Manager

	cfg       model.Config
	backend   kv.Backend
	persister *persist.Persister
	feedback  session.Feedback
	log       logrus.FieldLogger
}

// Open opens the backend and hydrates every store from it.
func Open(ctx context.Context, opts Options) (*State, error) {
	backend := opts.Backend
	if backend == nil {
		if opts.Session.Ephemeral {
			opts.Storage.Backend = kv.BackendMemory
		}
		b, err := kv.Open(opts.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		backend = b
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewManager()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	p := persist.New(backend, persist.WithMetrics(opts.Metrics), persist.WithLogger(opts.Logger))
	s := &State{
		Exercises: registry.NewExercises(p),
		Routines:  registry.NewRoutines(p),
		Logs:      logstore.New(p),
		Metrics:   opts.Metrics,
		cfg:       opts.Session,
		backend:   backend,
		persister: p,
		feedback:  opts.Feedback,
		log:       opts.Logger,
	}
	s.Exercises.Hydrate(ctx)
	s.Routines.Hydrate(ctx)
	s.Logs.Hydrate(ctx)
	s.log.WithFields(logrus.Fields{
		"custom_exercises": len(s.Exercises.Customs()),
		"routines":         len(s.Routines.All()),
		"logs":             s.Logs.TotalCount(),
	}).Debug("state hydrated")
	return s, nil
}

// Config returns the session settings the state was opened with.
func (s *State) Config() model.Config {
	return s.cfg
}

// Flush waits until every change made so far has been written.
func (s *State) Flush(ctx context.Context) error {
	return s.persister.Flush(ctx)
}

// Close flushes pending writes and closes the backend.
func (s *State) Close(ctx context.Context) error {
	err := s.persister.Close(ctx)
	if cerr := s.backend.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to close storage: %w", cerr))
	}
	return err
}

// LastSaved returns the last write time of every record the backend holds. ok is
// false when the backend does not record write times.
func (s *State) LastSaved(ctx context.Context) (saved map[string]time.Time, ok bool, err error) {
	stamper, ok := s.backend.(kv.Stamper)
	if !ok {
		return nil, false, nil
	}
	saved = make(map[string]time.Time, len(kv.Keys))
	for _, key := range kv.Keys {
		at, found, err := stamper.UpdatedAt(ctx, key)
		if err != nil {
			return nil, true, fmt.Errorf("failed to read %s timestamp: %w", key, err)
		}
		if found {
			saved[key] = at
		}
	}
	return saved, true, nil
}

// NewSession starts a session for routineID in the Overview phase.
func (s *State) NewSession(routineID string) (*session.Engine, error) {
	routine, ok := s.Routines.Get(routineID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoutine, routineID)
	}
	return session.NewEngine(routine, s.Exercises, s.Routines, s.Logs,
		session.WithFeedback(s.feedback),
		session.WithMetrics(s.Metrics),
		session.WithLogger(s.log.WithField("routine", routineID)),
		session.WithDefaultRest(s.cfg.DefaultRest),
	), nil
}

// NewTimer returns a quick timer with the configured default length.
func (s *State) NewTimer() *session.Timer {
	return session.NewTimer(s.cfg.TimerSeconds, s.feedback)
}

// Report builds the progress report over the current history.
func (s *State) Report(cfg model.StatsConfig, now time.Time) analytics.Report {
	return analytics.BuildReport(s.Logs.All(), cfg, now)
}
