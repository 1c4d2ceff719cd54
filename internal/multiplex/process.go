package multiplex

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AryaLabsHQ/agentree/internal/ptypane"
)

// Instance represents a single Claude Code process running behind a PTY.
type Instance struct {
	ID       string
	Worktree string
	Pane     *ptypane.Pane
	State    InstanceState

	// Token tracking
	TokenUsage *TokenTracker

	// notify holds one pending signal after PTY output (further signals are
	// dropped while one is pending); done closes on StopInstance.
	notify chan struct{}
	done   chan struct{}

	// Timestamps
	StartedAt  time.Time
	LastActive time.Time

	// Mutex for thread-safe access
	mu sync.RWMutex
}

// ProcessManager manages multiple Claude Code instances
type ProcessManager struct {
	instances map[string]*Instance
	events    chan<- Event
	mu        sync.RWMutex
}

// NewProcessManager creates a new process manager
func NewProcessManager(events chan<- Event) (*ProcessManager, error) {
	return &ProcessManager{
		instances: make(map[string]*Instance),
		events:    events,
	}, nil
}

// Run starts the process manager main loop
func (pm *ProcessManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pm.checkInstances()
		}
	}
}

// AddInstance adds a new instance to manage
func (pm *ProcessManager) AddInstance(instance *Instance) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	instance.TokenUsage = NewTokenTracker()

	pm.instances[instance.ID] = instance

	pm.events <- NewProcessStateEvent(instance.ID, StateIdle, instance.State)
}

// GetInstances returns all instances
func (pm *ProcessManager) GetInstances() []*Instance {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	instances := make([]*Instance, 0, len(pm.instances))
	for _, instance := range pm.instances {
		instances = append(instances, instance)
	}
	return instances
}

// GetInstance returns a single instance by ID.
func (pm *ProcessManager) GetInstance(id string) (*Instance, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	instance, exists := pm.instances[id]
	if !exists {
		return nil, fmt.Errorf("instance %s not found", id)
	}
	return instance, nil
}

// SendInput writes text to a running instance's pane, as if typed.
func (pm *ProcessManager) SendInput(id, text string) error {
	pane, ok := pm.Pane(id)
	if !ok {
		return fmt.Errorf("instance %s has no running pane", id)
	}
	pane.HandlePaste(text, false)
	return nil
}

// Pane returns the PTY pane for a running instance, if any.
func (pm *ProcessManager) Pane(id string) (*ptypane.Pane, bool) {
	pm.mu.RLock()
	instance, exists := pm.instances[id]
	pm.mu.RUnlock()
	if !exists {
		return nil, false
	}

	instance.mu.RLock()
	defer instance.mu.RUnlock()
	return instance.Pane, instance.Pane != nil
}

// StartInstance starts a Claude Code instance
func (pm *ProcessManager) StartInstance(id string) error {
	pm.mu.Lock()
	instance, exists := pm.instances[id]
	pm.mu.Unlock()

	if !exists {
		return fmt.Errorf("instance %s not found", id)
	}

	instance.mu.Lock()

	if instance.State == StateRunning {
		instance.mu.Unlock()
		return fmt.Errorf("instance already running")
	}

	oldState := instance.State
	instance.State = StateStarting
	instance.StartedAt = time.Now()
	instance.notify = make(chan struct{}, 1)
	instance.done = make(chan struct{})
	instance.mu.Unlock()

	pm.events <- NewProcessStateEvent(id, oldState, StateStarting)

	tracker := instance.TokenUsage
	sink := func(data []byte) {
		tracker.ParseOutput(data)
		usage := tracker.GetUsage()
		pm.events <- &TokenUpdateEvent{
			BaseEvent:    BaseEvent{EventType: EventTokenUpdate, Time: time.Now()},
			InstanceID:   id,
			InputTokens:  usage.InputTokens,
			OutputTokens: usage.OutputTokens,
		}
	}
	pane := ptypane.New(instance.Worktree, []string{"code"}, instance.notify, sink)

	instance.mu.Lock()
	instance.Pane = pane
	if pane.IsProcessExited() {
		instance.State = StateCrashed
		instance.mu.Unlock()
		pm.events <- &ProcessErrorEvent{
			BaseEvent:  BaseEvent{EventType: EventProcessError, Time: time.Now()},
			InstanceID: id,
			Error:      fmt.Errorf("failed to start claude CLI"),
		}
		pm.events <- NewProcessStateEvent(id, StateStarting, StateCrashed)
		return fmt.Errorf("failed to start PTY for instance %s", id)
	}
	instance.State = StateRunning
	instance.mu.Unlock()

	go pm.readOutput(instance)

	pm.events <- NewProcessStateEvent(id, StateStarting, StateRunning)

	return nil
}

// StopInstance stops a Claude Code instance
func (pm *ProcessManager) StopInstance(id string) error {
	pm.mu.RLock()
	instance, exists := pm.instances[id]
	pm.mu.RUnlock()

	if !exists {
		return fmt.Errorf("instance %s not found", id)
	}

	instance.mu.Lock()
	defer instance.mu.Unlock()

	if instance.State != StateRunning {
		return fmt.Errorf("instance not running")
	}

	instance.State = StateStopping

	if instance.Pane != nil {
		instance.Pane.Close()
	}
	close(instance.done)

	instance.State = StateStopped

	pm.events <- NewProcessStateEvent(id, StateRunning, StateStopped)

	return nil
}

// StopAll stops all running instances
func (pm *ProcessManager) StopAll() {
	pm.mu.RLock()
	ids := make([]string, 0, len(pm.instances))
	for id := range pm.instances {
		ids = append(ids, id)
	}
	pm.mu.RUnlock()

	for _, id := range ids {
		pm.StopInstance(id)
	}
}

// readOutput watches an instance's pane for activity: it relays output
// pulses as redraw events, drives the CWD tracker, and notices the child
// exiting on its own.
func (pm *ProcessManager) readOutput(instance *Instance) {
	ticker := time.NewTicker(ptypane.DefaultTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-instance.done:
			return

		case <-instance.notify:
			instance.mu.Lock()
			instance.LastActive = time.Now()
			instance.mu.Unlock()
			pm.events <- NewProcessOutputEvent(instance.ID, nil)

		case <-ticker.C:
			instance.Pane.Tick()

			if instance.Pane.IsProcessExited() {
				instance.mu.Lock()
				crashed := instance.State == StateRunning
				if crashed {
					instance.State = StateCrashed
				}
				instance.mu.Unlock()
				if crashed {
					pm.events <- NewProcessStateEvent(instance.ID, StateRunning, StateCrashed)
				}
				return
			}
		}
	}
}

// checkInstances monitors instance health
func (pm *ProcessManager) checkInstances() {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	for _, instance := range pm.instances {
		instance.mu.RLock()

		if instance.State == StateRunning {
			if time.Since(instance.LastActive) > 5*time.Minute {
				// TODO: surface a "possibly hung" warning event once the UI
				// has somewhere to show it.
			}
		}

		instance.mu.RUnlock()
	}
}
