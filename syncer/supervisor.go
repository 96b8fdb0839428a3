package syncer

import (
	"errors"
	"sync"
	"time"

	"github.com/goodbye-jack/ldap-sync/log"
)

// ErrAlreadyRunning is returned when a sync run is requested while
// another one is still active. The request is dropped, never queued.
var ErrAlreadyRunning = errors.New("a sync run is already in progress")

// Supervisor is the single-slot run guard: at most one sync run is
// active system-wide, shared between the master and slave engines.
type Supervisor struct {
	mu       sync.Mutex
	running  bool
	name     string
	lastName string
	lastRun  time.Time
	lastErr  string
}

type Status struct {
	Running  bool      `json:"running"`
	Name     string    `json:"name,omitempty"`
	LastName string    `json:"lastName,omitempty"`
	LastRun  time.Time `json:"lastRun,omitempty"`
	LastErr  string    `json:"lastErr,omitempty"`
}

func NewSupervisor() *Supervisor {
	return &Supervisor{}
}

func (s *Supervisor) begin(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		log.Warnf("%s requested while %s is active, dropping", name, s.name)
		return false
	}
	s.running = true
	s.name = name
	return true
}

func (s *Supervisor) end(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.name = ""
	s.lastName = name
	s.lastRun = time.Now()
	if err != nil {
		s.lastErr = err.Error()
	} else {
		s.lastErr = ""
	}
}

// Run executes fn synchronously under the guard.
func (s *Supervisor) Run(name string, fn func() error) error {
	if !s.begin(name) {
		return ErrAlreadyRunning
	}
	err := fn()
	s.end(name, err)
	return err
}

// Trigger starts fn on a background goroutine under the guard and
// returns immediately, ErrAlreadyRunning when the slot is taken.
func (s *Supervisor) Trigger(name string, fn func() error) error {
	if !s.begin(name) {
		return ErrAlreadyRunning
	}
	go func() {
		s.end(name, fn())
	}()
	return nil
}

func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Running:  s.running,
		Name:     s.name,
		LastName: s.lastName,
		LastRun:  s.lastRun,
		LastErr:  s.lastErr,
	}
}
