package curriculum_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/assignment"
	"github.com/trezcool/ufundi/core/catalog"
	"github.com/trezcool/ufundi/core/curriculum"
	"github.com/trezcool/ufundi/core/workflow"
	dummydb "github.com/trezcool/ufundi/storage/database/dummy"
)

var (
	ctx      = context.Background()
	now      = time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)
	validate = newValidate()

	teacher  = core.Actor{Role: core.RoleTeacher, SubjectID: 10}
	regional = core.Actor{Role: core.RoleInstitutionRegional, SubjectID: 30}
)

func newValidate() *validator.Validate {
	v := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(v, translator)
	return v
}

func setup(t *testing.T) (*dummydb.DB, *curriculum.Service) {
	t.Helper()
	db := dummydb.NewDB()

	db.AddInstitution(catalog.Institution{ID: 30, Name: "Oran Region", Kind: catalog.InstitutionRegional})
	db.AddTeacher(catalog.Teacher{ID: 10, FirstName: "Salim", Email: "salim@example.com"})
	db.AddModule(catalog.Module{ID: 1, Code: "INF101", SpecialtyID: 1})
	db.AddModule(catalog.Module{ID: 2, Code: "ELT201", SpecialtyID: 1})
	db.AddAssignment(assignment.Assignment{ID: 60, TeacherID: 10, ModuleID: 1, AcademicYear: "2024-09-01", Semester: "S1"})

	svc := curriculum.NewService(
		dummydb.NewCurriculumRepository(db),
		dummydb.NewCatalogRepository(db),
		dummydb.NewAssignmentRepository(db),
	)
	return db, svc
}

func Test_Service_SubmitProgramme(t *testing.T) {
	_, svc := setup(t)

	ns := curriculum.NewSubmission{ModuleID: 1, Title: "  Networking basics ", Document: "progs/net.pdf"}

	prog, err := svc.SubmitProgramme(ctx, regional, ns, validate)
	require.NoError(t, err)
	assert.NotZero(t, prog.ID)
	assert.Equal(t, regional.SubjectID, prog.InstitutionID)
	assert.Equal(t, "Networking basics", prog.Title) // cleaned
	assert.Equal(t, workflow.StatusPending, prog.Status)
	assert.True(t, prog.DecidedAt.IsZero())

	t.Run("only regional institutions submit programmes", func(t *testing.T) {
		_, err := svc.SubmitProgramme(ctx, teacher, ns, validate)
		assert.ErrorIs(t, err, core.ErrNotAuthorized)
	})

	t.Run("unknown module", func(t *testing.T) {
		bad := ns
		bad.ModuleID = 999
		_, err := svc.SubmitProgramme(ctx, regional, bad, validate)
		assert.ErrorIs(t, err, catalog.ErrModuleNotFound)
	})

	t.Run("missing title", func(t *testing.T) {
		bad := ns
		bad.Title = "   "
		_, err := svc.SubmitProgramme(ctx, regional, bad, validate)
		var vErrs validator.ValidationErrors
		assert.ErrorAs(t, err, &vErrs)
	})
}

func Test_Service_SubmitCourse(t *testing.T) {
	_, svc := setup(t)

	course, err := svc.SubmitCourse(ctx, teacher, curriculum.NewSubmission{ModuleID: 1, Title: "TCP/IP"}, validate)
	require.NoError(t, err)
	assert.Equal(t, teacher.SubjectID, course.TeacherID)
	assert.Equal(t, workflow.StatusPending, course.Status)

	t.Run("module must be in the teacher's assignment set", func(t *testing.T) {
		_, err := svc.SubmitCourse(ctx, teacher, curriculum.NewSubmission{ModuleID: 2, Title: "Circuits"}, validate)
		assert.ErrorIs(t, err, core.ErrNotAuthorized)
	})

	t.Run("unassigned teacher cannot submit", func(t *testing.T) {
		other := core.Actor{Role: core.RoleTeacher, SubjectID: 11}
		_, err := svc.SubmitCourse(ctx, other, curriculum.NewSubmission{ModuleID: 1, Title: "TCP/IP"}, validate)
		assert.ErrorIs(t, err, core.ErrNotAuthorized)
	})

	t.Run("only teachers submit courses", func(t *testing.T) {
		_, err := svc.SubmitCourse(ctx, regional, curriculum.NewSubmission{ModuleID: 1, Title: "TCP/IP"}, validate)
		assert.ErrorIs(t, err, core.ErrNotAuthorized)
	})
}

func Test_Service_UpdateProgramme(t *testing.T) {
	db, svc := setup(t)

	db.AddProgramme(curriculum.Programme{
		ID: 100, ModuleID: 1, InstitutionID: 30, Title: "Networking basics",
		State: workflow.State{Status: workflow.StatusRefused, Observation: "too thin", DecidedAt: now, UpdatedAt: now},
	})
	db.AddProgramme(curriculum.Programme{
		ID: 101, ModuleID: 1, InstitutionID: 30, Title: "Security",
		State: workflow.State{Status: workflow.StatusAccepted, DecidedAt: now, UpdatedAt: now},
	})

	t.Run("editing never changes the status", func(t *testing.T) {
		prog, err := svc.UpdateProgramme(ctx, regional, 100, curriculum.UpdateSubmission{Title: "Networking, revised"})
		require.NoError(t, err)
		assert.Equal(t, "Networking, revised", prog.Title)
		assert.Equal(t, workflow.StatusRefused, prog.Status)
	})

	t.Run("empty fields are left untouched", func(t *testing.T) {
		prog, err := svc.UpdateProgramme(ctx, regional, 100, curriculum.UpdateSubmission{Document: "progs/net-v2.pdf"})
		require.NoError(t, err)
		assert.Equal(t, "Networking, revised", prog.Title)
		assert.Equal(t, "progs/net-v2.pdf", prog.Document)
	})

	t.Run("acceptance freezes content", func(t *testing.T) {
		_, err := svc.UpdateProgramme(ctx, regional, 101, curriculum.UpdateSubmission{Title: "Security, revised"})
		var terr *workflow.TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, workflow.ReasonTerminalState, terr.Reason)
	})

	t.Run("only the owner edits", func(t *testing.T) {
		other := core.Actor{Role: core.RoleInstitutionRegional, SubjectID: 99}
		_, err := svc.UpdateProgramme(ctx, other, 100, curriculum.UpdateSubmission{Title: "hijack"})
		assert.ErrorIs(t, err, core.ErrNotAuthorized)
	})

	t.Run("unknown programme", func(t *testing.T) {
		_, err := svc.UpdateProgramme(ctx, regional, 999, curriculum.UpdateSubmission{Title: "x"})
		assert.ErrorIs(t, err, curriculum.ErrProgrammeNotFound)
	})
}

func Test_Service_ResubmitProgramme(t *testing.T) {
	db, svc := setup(t)

	db.AddProgramme(curriculum.Programme{
		ID: 100, ModuleID: 1, InstitutionID: 30, Title: "Networking basics",
		State: workflow.State{Status: workflow.StatusRefused, Observation: "too thin", DecidedAt: now, UpdatedAt: now},
	})

	t.Run("only the owner resubmits", func(t *testing.T) {
		other := core.Actor{Role: core.RoleInstitutionRegional, SubjectID: 99}
		_, err := svc.ResubmitProgramme(ctx, other, 100)
		assert.ErrorIs(t, err, core.ErrNotAuthorized)
	})

	t.Run("refused returns to pending", func(t *testing.T) {
		prog, err := svc.ResubmitProgramme(ctx, regional, 100)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusPending, prog.Status)
	})

	t.Run("pending cannot be resubmitted again", func(t *testing.T) {
		_, err := svc.ResubmitProgramme(ctx, regional, 100)
		var terr *workflow.TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, workflow.ReasonInvalidTarget, terr.Reason)
	})
}

func Test_Service_UpdateResubmitCourse(t *testing.T) {
	db, svc := setup(t)

	db.AddCourse(curriculum.Course{
		ID: 110, ModuleID: 1, TeacherID: 10, Title: "TCP/IP",
		State: workflow.State{Status: workflow.StatusRefused, Observation: "outdated", DecidedAt: now, UpdatedAt: now},
	})

	t.Run("owner edits a refused course", func(t *testing.T) {
		course, err := svc.UpdateCourse(ctx, teacher, 110, curriculum.UpdateSubmission{Document: "courses/tcpip-v2.pdf"})
		require.NoError(t, err)
		assert.Equal(t, "courses/tcpip-v2.pdf", course.Document)
		assert.Equal(t, workflow.StatusRefused, course.Status)
	})

	t.Run("another teacher cannot touch it", func(t *testing.T) {
		other := core.Actor{Role: core.RoleTeacher, SubjectID: 11}
		_, err := svc.UpdateCourse(ctx, other, 110, curriculum.UpdateSubmission{Title: "hijack"})
		assert.ErrorIs(t, err, core.ErrNotAuthorized)

		_, err = svc.ResubmitCourse(ctx, other, 110)
		assert.ErrorIs(t, err, core.ErrNotAuthorized)
	})

	t.Run("owner resubmits", func(t *testing.T) {
		course, err := svc.ResubmitCourse(ctx, teacher, 110)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusPending, course.Status)
	})
}
