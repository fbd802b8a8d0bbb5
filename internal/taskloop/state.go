// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package taskloop

import "fmt"

// State is a loop run's position in its lifecycle.
type State string

const (
	StateIdle            State = "idle"
	StateSeeded          State = "seeded"
	StateAwaitingExecute State = "awaiting_execute"
	StateAwaitingCreate  State = "awaiting_create"
	StateDone            State = "done"
	StateCancelled       State = "cancelled"
	StateFailed          State = "failed"
)

// IsTerminal reports whether the state is terminal (finished).
func (s State) IsTerminal() bool {
	switch s {
	case StateDone, StateCancelled, StateFailed:
		return true
	default:
		return false
	}
}

// TransitionError reports a disallowed state change. It indicates a bug in
// the controller, not a runtime condition.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("taskloop: disallowed transition %s -> %s", e.From, e.To)
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateSeeded
	case StateSeeded:
		return to == StateAwaitingExecute || to == StateDone || to == StateCancelled
	case StateAwaitingExecute:
		return to == StateAwaitingCreate || to == StateCancelled || to == StateFailed
	case StateAwaitingCreate:
		return to == StateAwaitingExecute || to == StateDone || to == StateCancelled || to == StateFailed
	default:
		return false
	}
}

// transition moves *cur to next if the table allows it.
func transition(cur *State, next State) error {
	if !isAllowedTransition(*cur, next) {
		return &TransitionError{From: *cur, To: next}
	}
	*cur = next
	return nil
}
