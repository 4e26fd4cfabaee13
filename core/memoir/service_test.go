package memoir_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/memoir"
	"github.com/trezcool/ufundi/core/workflow"
	dummydb "github.com/trezcool/ufundi/storage/database/dummy"
)

var (
	ctx = context.Background()
	now = time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)

	trainee = core.Actor{Role: core.RoleTrainee, SubjectID: 20}
)

func setup(t *testing.T) *memoir.Service {
	t.Helper()
	db := dummydb.NewDB()

	db.AddMemoir(memoir.Memoir{
		ID: 120, TraineeID: 20, TeacherID: 10, Title: "My memoir",
		State: workflow.State{Status: workflow.StatusRefused, Observation: "rework intro", DecidedAt: now, UpdatedAt: now},
	})
	db.AddMemoir(memoir.Memoir{
		ID: 121, TraineeID: 21, TeacherID: 10, Title: "Peer memoir",
		State: workflow.State{Status: workflow.StatusAccepted, DecidedAt: now, UpdatedAt: now},
	})

	return memoir.NewService(dummydb.NewMemoirRepository(db))
}

func Test_Service_Update(t *testing.T) {
	svc := setup(t)

	t.Run("owner edits, status stays put", func(t *testing.T) {
		mem, err := svc.Update(ctx, trainee, 120, memoir.UpdateMemoir{Document: "memoirs/v2.pdf"})
		require.NoError(t, err)
		assert.Equal(t, "memoirs/v2.pdf", mem.Document)
		assert.Equal(t, "My memoir", mem.Title)
		assert.Equal(t, workflow.StatusRefused, mem.Status)
	})

	t.Run("another trainee cannot edit", func(t *testing.T) {
		other := core.Actor{Role: core.RoleTrainee, SubjectID: 21}
		_, err := svc.Update(ctx, other, 120, memoir.UpdateMemoir{Title: "hijack"})
		assert.ErrorIs(t, err, core.ErrNotAuthorized)
	})

	t.Run("the supervisor cannot edit either", func(t *testing.T) {
		teacher := core.Actor{Role: core.RoleTeacher, SubjectID: 10}
		_, err := svc.Update(ctx, teacher, 120, memoir.UpdateMemoir{Title: "hijack"})
		assert.ErrorIs(t, err, core.ErrNotAuthorized)
	})

	t.Run("acceptance freezes content", func(t *testing.T) {
		owner := core.Actor{Role: core.RoleTrainee, SubjectID: 21}
		_, err := svc.Update(ctx, owner, 121, memoir.UpdateMemoir{Title: "late edit"})
		var terr *workflow.TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, workflow.ReasonTerminalState, terr.Reason)
	})

	t.Run("unknown memoir", func(t *testing.T) {
		_, err := svc.Update(ctx, trainee, 999, memoir.UpdateMemoir{Title: "x"})
		assert.ErrorIs(t, err, memoir.ErrNotFound)
	})
}

func Test_Service_Resubmit(t *testing.T) {
	svc := setup(t)

	t.Run("refused returns to submitted", func(t *testing.T) {
		mem, err := svc.Resubmit(ctx, trainee, 120)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusSubmitted, mem.Status)
	})

	t.Run("submitted cannot be resubmitted again", func(t *testing.T) {
		_, err := svc.Resubmit(ctx, trainee, 120)
		var terr *workflow.TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, workflow.ReasonInvalidTarget, terr.Reason)
	})

	t.Run("accepted is terminal", func(t *testing.T) {
		owner := core.Actor{Role: core.RoleTrainee, SubjectID: 21}
		_, err := svc.Resubmit(ctx, owner, 121)
		var terr *workflow.TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, workflow.ReasonTerminalState, terr.Reason)
	})
}
