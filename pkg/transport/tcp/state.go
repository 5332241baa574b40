package tcp

import (
	"fmt"
	"sync"
)

type State byte

const (
	StateUninitialized State = iota
	StateBound
	StateListening
	StateAccepted
	StateSent
	StateConnectAttempted
	StateReceived
	StatePrinted
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBound:
		return "bound"
	case StateListening:
		return "listening"
	case StateAccepted:
		return "accepted"
	case StateSent:
		return "sent"
	case StateConnectAttempted:
		return "connect_attempted"
	case StateReceived:
		return "received"
	case StatePrinted:
		return "printed"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// stateMachine records forward-only transitions. Closed and Failed are terminal.
type stateMachine struct {
	mu      sync.RWMutex
	current State
	history []State
}

func (m *stateMachine) set(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == StateClosed || m.current == StateFailed || m.current == s {
		return
	}
	m.current = s
	m.history = append(m.history, s)
}

func (m *stateMachine) get() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *stateMachine) transitions() []State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]State, len(m.history))
	copy(out, m.history)
	return out
}
