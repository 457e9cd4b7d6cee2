// Package monitor runs the periodic status loop: it samples the store
// writer backlog and the session state, logs the snapshot, and forwards the
// backlog to telemetry.
package monitor

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/eric-ce/mapmeasure/internal/queue"
	"github.com/eric-ce/mapmeasure/internal/session"
	"github.com/eric-ce/mapmeasure/internal/worker"
)

// DefaultInterval is how often the monitor samples.
const DefaultInterval = 30 * time.Second

// maxHistory bounds the retained sample window.
const maxHistory = 120

// DepthRecorder receives the sampled store writer backlog. The telemetry
// manager implements it.
type DepthRecorder interface {
	WriteQueueDepth(depth int)
}

// Status is one monitor snapshot.
type Status struct {
	Scene      string    `json:"scene"`
	Mode       string    `json:"mode"`
	QueueDepth int       `json:"queueDepth"`
	SampledAt  time.Time `json:"sampledAt"`
}

// Dependencies holds everything the monitor samples from.
type Dependencies struct {
	Log      *slog.Logger
	Session  *session.Context
	Writer   *worker.Writer
	Recorder DepthRecorder // optional
	Interval time.Duration
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	mu        sync.RWMutex
	isRunning bool
	stopChan  chan struct{}
	history   *queue.Queue[Status]
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
		history:  queue.New[Status](),
	}
}

// IsRunning returns whether the status monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Sample takes one snapshot without logging it.
func (s *Service) Sample() Status {
	st := Status{
		SampledAt: time.Now(),
	}
	if s.deps.Session != nil {
		st.Scene = s.deps.Session.GetScene().Name
		st.Mode = string(s.deps.Session.GetMode())
	}
	if s.deps.Writer != nil {
		st.QueueDepth = s.deps.Writer.QueueDepth()
	}
	return st
}

// History returns and clears the accumulated samples, oldest first.
func (s *Service) History() []Status {
	return s.history.GetAndEmpty()
}

// Start launches the sampling loop. Calling Start on a running service is a
// no-op.
func (s *Service) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	go s.loop()
}

// Stop terminates the sampling loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)
}

func (s *Service) loop() {
	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			st := s.Sample()
			s.history.Push(st)
			for s.history.Len() > maxHistory {
				s.history.Pop()
			}
			if b, err := json.Marshal(st); err == nil {
				s.deps.Log.Debug("Status sample", "status", string(b))
			}
			if s.deps.Recorder != nil {
				s.deps.Recorder.WriteQueueDepth(st.QueueDepth)
			}
		}
	}
}
