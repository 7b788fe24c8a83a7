package astro

import (
	"fmt"
	"time"
)

// Trajectory answers state queries from a single model.
type Trajectory struct {
	model Model
}

// NewTrajectory returns a trajectory backed by the model.
func NewTrajectory(m Model) Trajectory {
	return Trajectory{m}
}

// TrajectoryFromStates returns a trajectory interpolating between the samples.
// No samples yield the undefined trajectory.
func TrajectoryFromStates(states []State) (Trajectory, error) {
	if len(states) == 0 {
		return UndefinedTrajectory(), nil
	}
	m, err := NewTabulated(states)
	if err != nil {
		return Trajectory{}, err
	}
	return Trajectory{m}, nil
}

// TrajectoryFromPosition returns the trajectory of an object fixed at p.
func TrajectoryFromPosition(p Position) Trajectory {
	return Trajectory{NewFixed(p)}
}

// UndefinedTrajectory returns the undefined trajectory.
func UndefinedTrajectory() Trajectory {
	return Trajectory{}
}

// IsDefined returns whether the backing model is defined.
func (t Trajectory) IsDefined() bool {
	return t.model != nil && t.model.IsDefined()
}

// Model returns the backing model.
func (t Trajectory) Model() Model {
	return t.model
}

// StateAt returns the state at the provided instant.
func (t Trajectory) StateAt(instant time.Time) (State, error) {
	if !t.IsDefined() {
		return State{}, ErrUndefinedState
	}
	return t.model.StateAt(instant)
}

// StatesAt returns the states at each instant, in the same order. The first
// failing instant fails the whole call.
func (t Trajectory) StatesAt(instants []time.Time) ([]State, error) {
	if !t.IsDefined() {
		return nil, ErrUndefinedState
	}
	states := make([]State, len(instants))
	for i, instant := range instants {
		s, err := t.model.StateAt(instant)
		if err != nil {
			return nil, fmt.Errorf("instant #%d (%s): %w", i, instant.UTC(), err)
		}
		states[i] = s
	}
	return states, nil
}

// Equal returns whether both trajectories are defined with equal models.
func (t Trajectory) Equal(o Trajectory) bool {
	return t.IsDefined() && o.IsDefined() && t.model.Equal(o.model)
}

// String implements the Stringer interface.
func (t Trajectory) String() string {
	if !t.IsDefined() {
		return "Undefined trajectory"
	}
	return t.model.Kind().String() + " trajectory"
}

// Grid returns the instants from start to end, both included, every step.
func Grid(start, end time.Time, step time.Duration) ([]time.Time, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: step %s", ErrInvalidArgument, step)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s before start %s", ErrInvalidArgument, end.UTC(), start.UTC())
	}
	var instants []time.Time
	for dt := start; !dt.After(end); dt = dt.Add(step) {
		instants = append(instants, dt)
	}
	return instants, nil
}
