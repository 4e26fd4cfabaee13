package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)

func Test_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		from Status
		to   Status
		want bool
	}{
		{name: "programme pending->accepted", kind: KindProgramme, from: StatusPending, to: StatusAccepted, want: true},
		{name: "programme pending->refused", kind: KindProgramme, from: StatusPending, to: StatusRefused, want: true},
		{name: "programme refused->accepted", kind: KindProgramme, from: StatusRefused, to: StatusAccepted, want: true},
		{name: "programme accepted is terminal", kind: KindProgramme, from: StatusAccepted, to: StatusRefused, want: false},
		{name: "programme cannot be cancelled", kind: KindProgramme, from: StatusPending, to: StatusCancelled, want: false},
		{name: "programme cannot be submitted", kind: KindProgramme, from: StatusPending, to: StatusSubmitted, want: false},
		{name: "course accepted is terminal", kind: KindCourse, from: StatusAccepted, to: StatusPending, want: false},
		{name: "memoir submitted->accepted", kind: KindMemoir, from: StatusSubmitted, to: StatusAccepted, want: true},
		{name: "memoir cannot be pending", kind: KindMemoir, from: StatusSubmitted, to: StatusPending, want: false},
		{name: "enrollment pending->cancelled", kind: KindEnrollment, from: StatusPending, to: StatusCancelled, want: true},
		{name: "enrollment accepted is terminal", kind: KindEnrollment, from: StatusAccepted, to: StatusCancelled, want: false},
		{name: "unknown kind has no legal set", kind: Kind("diploma"), from: StatusPending, to: StatusAccepted, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.kind, tt.from, tt.to))
		})
	}
}

func Test_Apply(t *testing.T) {
	t.Run("accept stamps decision time", func(t *testing.T) {
		st, err := Apply(KindProgramme, NewState(KindProgramme, now), StatusAccepted, "good content", now)
		assert.NoError(t, err)
		assert.Equal(t, StatusAccepted, st.Status)
		assert.Equal(t, "good content", st.Observation)
		assert.Equal(t, now, st.DecidedAt)
	})

	t.Run("accept without observation is fine", func(t *testing.T) {
		st, err := Apply(KindEnrollment, NewState(KindEnrollment, now), StatusAccepted, "", now)
		assert.NoError(t, err)
		assert.Equal(t, StatusAccepted, st.Status)
		assert.Empty(t, st.Observation)
		assert.False(t, st.DecidedAt.IsZero())
	})

	t.Run("refusal requires observation", func(t *testing.T) {
		_, err := Apply(KindCourse, NewState(KindCourse, now), StatusRefused, "", now)
		var terr *TransitionError
		assert.ErrorAs(t, err, &terr)
		assert.Equal(t, ReasonMissingObservation, terr.Reason)
	})

	t.Run("leaving accepted fails", func(t *testing.T) {
		st, err := Apply(KindProgramme, NewState(KindProgramme, now), StatusAccepted, "ok", now)
		assert.NoError(t, err)
		_, err = Apply(KindProgramme, st, StatusRefused, "changed my mind", now)
		var terr *TransitionError
		assert.ErrorAs(t, err, &terr)
		assert.Equal(t, ReasonTerminalState, terr.Reason)
	})

	t.Run("illegal target status", func(t *testing.T) {
		_, err := Apply(KindMemoir, NewState(KindMemoir, now), StatusCancelled, "", now)
		var terr *TransitionError
		assert.ErrorAs(t, err, &terr)
		assert.Equal(t, ReasonInvalidTarget, terr.Reason)
	})

	t.Run("cancel does not stamp decision time", func(t *testing.T) {
		st, err := Apply(KindEnrollment, NewState(KindEnrollment, now), StatusCancelled, "", now)
		assert.NoError(t, err)
		assert.True(t, st.DecidedAt.IsZero())
	})
}

func Test_Resubmit(t *testing.T) {
	refused := func(kind Kind) State {
		st, err := Apply(kind, NewState(kind, now), StatusRefused, "incomplete", now)
		if err != nil {
			t.Fatalf("refusing: %v", err)
		}
		return st
	}

	t.Run("refused programme returns to pending", func(t *testing.T) {
		st, err := Resubmit(KindProgramme, refused(KindProgramme), now)
		assert.NoError(t, err)
		assert.Equal(t, StatusPending, st.Status)
	})

	t.Run("refused memoir returns to submitted", func(t *testing.T) {
		st, err := Resubmit(KindMemoir, refused(KindMemoir), now)
		assert.NoError(t, err)
		assert.Equal(t, StatusSubmitted, st.Status)
	})

	t.Run("pending cannot be resubmitted", func(t *testing.T) {
		_, err := Resubmit(KindCourse, NewState(KindCourse, now), now)
		var terr *TransitionError
		assert.ErrorAs(t, err, &terr)
		assert.Equal(t, ReasonInvalidTarget, terr.Reason)
	})

	t.Run("accepted cannot be resubmitted", func(t *testing.T) {
		st, _ := Apply(KindCourse, NewState(KindCourse, now), StatusAccepted, "", now)
		_, err := Resubmit(KindCourse, st, now)
		var terr *TransitionError
		assert.ErrorAs(t, err, &terr)
		assert.Equal(t, ReasonTerminalState, terr.Reason)
	})
}

func Test_EditableContent(t *testing.T) {
	assert.NoError(t, EditableContent(KindMemoir, NewState(KindMemoir, now)))

	st, _ := Apply(KindMemoir, NewState(KindMemoir, now), StatusRefused, "rework intro", now)
	assert.NoError(t, EditableContent(KindMemoir, st))

	st, _ = Apply(KindMemoir, NewState(KindMemoir, now), StatusAccepted, "", now)
	assert.Error(t, EditableContent(KindMemoir, st))
}
