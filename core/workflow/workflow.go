// Package workflow enforces the approval status lifecycle shared by submitted
// artifacts (programmes, courses, memoirs, enrollment requests). It is pure:
// no I/O, no clock of its own.
package workflow

import (
	"fmt"
	"time"
)

// Kind identifies a workflow-bearing entity type.
type Kind string

const (
	KindProgramme  Kind = "programme"
	KindCourse     Kind = "course"
	KindMemoir     Kind = "memoir"
	KindEnrollment Kind = "enrollment"
)

var AllKinds = []Kind{KindProgramme, KindCourse, KindMemoir, KindEnrollment}

func KnownKind(kind Kind) bool {
	for _, k := range AllKinds {
		if k == kind {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusAccepted  Status = "accepted"
	StatusRefused   Status = "refused"
	StatusCancelled Status = "cancelled"
)

// statusSets fixes the legal status set per entity type. Statuses are never free text.
var statusSets = map[Kind][]Status{
	KindProgramme:  {StatusPending, StatusAccepted, StatusRefused},
	KindCourse:     {StatusPending, StatusAccepted, StatusRefused},
	KindMemoir:     {StatusSubmitted, StatusAccepted, StatusRefused},
	KindEnrollment: {StatusPending, StatusAccepted, StatusRefused, StatusCancelled},
}

// Statuses returns the legal status set for kind.
func Statuses(kind Kind) []Status {
	return statusSets[kind]
}

// Initial returns the status a freshly submitted entity of kind carries.
func Initial(kind Kind) Status {
	if kind == KindMemoir {
		return StatusSubmitted
	}
	return StatusPending
}

func ValidStatus(kind Kind, status Status) bool {
	for _, s := range statusSets[kind] {
		if s == status {
			return true
		}
	}
	return false
}

// Transition error reasons
type Reason string

const (
	ReasonInvalidTarget      Reason = "invalid_target_status"
	ReasonTerminalState      Reason = "terminal_state_violation"
	ReasonMissingObservation Reason = "missing_observation"
)

type TransitionError struct {
	Kind   Kind
	From   Status
	To     Status
	Reason Reason
}

func (e *TransitionError) Error() string {
	switch e.Reason {
	case ReasonTerminalState:
		return fmt.Sprintf("%s is %s; accepted entities cannot be modified", e.Kind, e.From)
	case ReasonMissingObservation:
		return fmt.Sprintf("refusing a %s requires an explanatory observation", e.Kind)
	default:
		return fmt.Sprintf("cannot transition %s from %q to %q", e.Kind, e.From, e.To)
	}
}

func newTransitionError(kind Kind, from, to Status, reason Reason) error {
	return &TransitionError{Kind: kind, From: from, To: to, Reason: reason}
}

// State is the workflow-bearing part of an entity; embedded by each artifact model.
type State struct {
	Status      Status    `json:"status"`
	Observation string    `json:"observation,omitempty"`
	DecidedAt   time.Time `json:"decided_at,omitempty"` // zero until first accept/refuse
	UpdatedAt   time.Time `json:"updated_at"`           // UTC
}

// NewState returns the initial state for a fresh submission of kind.
func NewState(kind Kind, now time.Time) State {
	return State{Status: Initial(kind), UpdatedAt: now.UTC()}
}

// CanTransition reports whether an entity of kind may move from `from` to `to`.
// No kind allows transitioning out of a terminal "accepted" status.
func CanTransition(kind Kind, from, to Status) bool {
	if !ValidStatus(kind, to) {
		return false
	}
	return from != StatusAccepted
}

// Apply validates and performs a status transition, stamping the decision time on
// accept/refuse. Refusal without an observation is rejected; the decider owes the
// submitter an explanation.
func Apply(kind Kind, st State, target Status, observation string, now time.Time) (State, error) {
	if !ValidStatus(kind, target) {
		return State{}, newTransitionError(kind, st.Status, target, ReasonInvalidTarget)
	}
	if st.Status == StatusAccepted {
		return State{}, newTransitionError(kind, st.Status, target, ReasonTerminalState)
	}
	if target == StatusRefused && observation == "" {
		return State{}, newTransitionError(kind, st.Status, target, ReasonMissingObservation)
	}

	st.Status = target
	if observation != "" {
		st.Observation = observation
	}
	st.UpdatedAt = now.UTC()
	if target == StatusAccepted || target == StatusRefused {
		st.DecidedAt = now.UTC()
	}
	return st, nil
}

// Resubmit returns a refused entity to its initial status. Re-entry is an explicit
// operation; content edits alone never change the status.
func Resubmit(kind Kind, st State, now time.Time) (State, error) {
	initial := Initial(kind)
	switch st.Status {
	case StatusAccepted:
		return State{}, newTransitionError(kind, st.Status, initial, ReasonTerminalState)
	case StatusRefused:
		st.Status = initial
		st.UpdatedAt = now.UTC()
		return st, nil
	default:
		return State{}, newTransitionError(kind, st.Status, initial, ReasonInvalidTarget)
	}
}

// EditableContent reports whether the owning actor may still mutate the entity's
// content fields. Acceptance freezes content.
func EditableContent(kind Kind, st State) error {
	if st.Status == StatusAccepted {
		return newTransitionError(kind, st.Status, st.Status, ReasonTerminalState)
	}
	return nil
}
