package scope_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/assignment"
	"github.com/trezcool/ufundi/core/catalog"
	"github.com/trezcool/ufundi/core/curriculum"
	"github.com/trezcool/ufundi/core/enrollment"
	"github.com/trezcool/ufundi/core/memoir"
	"github.com/trezcool/ufundi/core/scope"
	"github.com/trezcool/ufundi/core/workflow"
	dummydb "github.com/trezcool/ufundi/storage/database/dummy"
)

var (
	ctx = context.Background()
	now = time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC)

	teacher  = core.Actor{Role: core.RoleTeacher, SubjectID: 10}
	trainee  = core.Actor{Role: core.RoleTrainee, SubjectID: 20}
	regional = core.Actor{Role: core.RoleInstitutionRegional, SubjectID: 30}
	national = core.Actor{Role: core.RoleInstitutionNational, SubjectID: 31}
	training = core.Actor{Role: core.RoleInstitutionTraining, SubjectID: 32}
)

type fixtures struct {
	db       *dummydb.DB
	resolver *scope.Resolver
}

// setup seeds one coherent world:
//   - teacher 10 is assigned module 1; module 2 belongs to no one
//   - regional 30 owns programmes 100 (accepted, module 1) and 101 (pending, module 2)
//   - courses 110 (accepted, module 1), 111 (pending, module 1), 112 (accepted, module 2)
//   - training 32 owns offer 50; trainees 20 and 21 are enrolled on it
//   - memoirs: 120 (trainee 20, teacher 10, submitted), 121 (trainee 21, teacher 11, accepted)
func setup(t *testing.T) fixtures {
	t.Helper()
	db := dummydb.NewDB()

	db.AddInstitution(catalog.Institution{ID: 30, Name: "Oran Region", Kind: catalog.InstitutionRegional})
	db.AddInstitution(catalog.Institution{ID: 31, Name: "Ministry", Kind: catalog.InstitutionNational})
	db.AddInstitution(catalog.Institution{ID: 32, Name: "CFPA Bab Ezzouar", Kind: catalog.InstitutionTraining})
	db.AddTeacher(catalog.Teacher{ID: 10, FirstName: "Salim", Email: "salim@example.com", InstitutionID: 32})
	db.AddTeacher(catalog.Teacher{ID: 11, FirstName: "Nora", Email: "nora@example.com", InstitutionID: 32})
	db.AddTrainee(catalog.Trainee{ID: 20, FirstName: "Amine", Email: "amine@example.com"})
	db.AddTrainee(catalog.Trainee{ID: 21, FirstName: "Lina", Email: "lina@example.com"})
	db.AddModule(catalog.Module{ID: 1, Code: "INF101", SpecialtyID: 1})
	db.AddModule(catalog.Module{ID: 2, Code: "ELT201", SpecialtyID: 1})
	db.AddOffer(catalog.TrainingOffer{ID: 50, InstitutionID: 32, SpecialtyID: 1, Status: catalog.OfferActive})
	db.AddOffer(catalog.TrainingOffer{ID: 51, InstitutionID: 33, SpecialtyID: 1, Status: catalog.OfferActive})

	db.AddAssignment(assignment.Assignment{ID: 60, TeacherID: 10, ModuleID: 1, AcademicYear: "2024-09-01", Semester: "S1"})

	db.AddProgramme(curriculum.Programme{
		ID: 100, ModuleID: 1, InstitutionID: 30, Title: "Networking basics",
		State: workflow.State{Status: workflow.StatusAccepted, DecidedAt: now, UpdatedAt: now},
	})
	db.AddProgramme(curriculum.Programme{
		ID: 101, ModuleID: 2, InstitutionID: 30, Title: "Electrotechnics",
		State: workflow.State{Status: workflow.StatusPending, UpdatedAt: now},
	})
	db.AddCourse(curriculum.Course{
		ID: 110, ModuleID: 1, TeacherID: 10, Title: "TCP/IP",
		State: workflow.State{Status: workflow.StatusAccepted, DecidedAt: now, UpdatedAt: now},
	})
	db.AddCourse(curriculum.Course{
		ID: 111, ModuleID: 1, TeacherID: 10, Title: "Routing",
		State: workflow.State{Status: workflow.StatusPending, UpdatedAt: now},
	})
	db.AddCourse(curriculum.Course{
		ID: 112, ModuleID: 2, TeacherID: 11, Title: "Circuits",
		State: workflow.State{Status: workflow.StatusAccepted, DecidedAt: now, UpdatedAt: now},
	})

	db.AddEnrollment(enrollment.Enrollment{
		ID: 70, TraineeID: 20, OfferID: 50,
		State: workflow.State{Status: workflow.StatusPending, UpdatedAt: now},
	})
	db.AddEnrollment(enrollment.Enrollment{
		ID: 71, TraineeID: 21, OfferID: 50,
		State: workflow.State{Status: workflow.StatusAccepted, DecidedAt: now, UpdatedAt: now},
	})
	db.AddEnrollment(enrollment.Enrollment{
		ID: 72, TraineeID: 21, OfferID: 51,
		State: workflow.State{Status: workflow.StatusPending, UpdatedAt: now},
	})

	db.AddMemoir(memoir.Memoir{
		ID: 120, TraineeID: 20, TeacherID: 10, Title: "My memoir",
		State: workflow.State{Status: workflow.StatusSubmitted, UpdatedAt: now},
	})
	db.AddMemoir(memoir.Memoir{
		ID: 121, TraineeID: 21, TeacherID: 11, Title: "Peer memoir",
		State: workflow.State{Status: workflow.StatusAccepted, DecidedAt: now, UpdatedAt: now},
	})

	resolver := scope.NewResolver(
		dummydb.NewCatalogRepository(db),
		dummydb.NewAssignmentRepository(db),
		dummydb.NewCurriculumRepository(db),
		dummydb.NewEnrollmentRepository(db),
		dummydb.NewMemoirRepository(db),
	)
	return fixtures{db: db, resolver: resolver}
}

func courseIDs(courses []curriculum.Course) []int {
	ids := make([]int, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}

func Test_Resolver_VisibleCourses(t *testing.T) {
	fix := setup(t)

	t.Run("teacher sees accepted courses of assigned modules only", func(t *testing.T) {
		courses, err := fix.resolver.VisibleCourses(ctx, teacher, scope.Filters{})
		require.NoError(t, err)
		assert.Equal(t, []int{110}, courseIDs(courses)) // not 111 (pending), not 112 (module 2)
	})

	t.Run("teacher with no assignments sees nothing", func(t *testing.T) {
		unassigned := core.Actor{Role: core.RoleTeacher, SubjectID: 11}
		courses, err := fix.resolver.VisibleCourses(ctx, unassigned, scope.Filters{})
		require.NoError(t, err)
		assert.Empty(t, courses)
	})

	t.Run("national sees all courses", func(t *testing.T) {
		courses, err := fix.resolver.VisibleCourses(ctx, national, scope.Filters{})
		require.NoError(t, err)
		assert.Equal(t, []int{112, 111, 110}, courseIDs(courses))
	})

	t.Run("national can narrow by status", func(t *testing.T) {
		courses, err := fix.resolver.VisibleCourses(ctx, national, scope.Filters{Status: workflow.StatusPending})
		require.NoError(t, err)
		assert.Equal(t, []int{111}, courseIDs(courses))
	})

	t.Run("trainee sees nothing", func(t *testing.T) {
		courses, err := fix.resolver.VisibleCourses(ctx, trainee, scope.Filters{})
		require.NoError(t, err)
		assert.Empty(t, courses)
	})
}

func Test_Resolver_VisibleProgrammes(t *testing.T) {
	fix := setup(t)

	t.Run("teacher sees accepted programmes for assigned modules", func(t *testing.T) {
		progs, err := fix.resolver.VisibleProgrammes(ctx, teacher, scope.Filters{})
		require.NoError(t, err)
		require.Len(t, progs, 1)
		assert.Equal(t, 100, progs[0].ID)
	})

	t.Run("regional sees its own programmes in all states", func(t *testing.T) {
		progs, err := fix.resolver.VisibleProgrammes(ctx, regional, scope.Filters{})
		require.NoError(t, err)
		require.Len(t, progs, 2)
		assert.Equal(t, 101, progs[0].ID) // most recent first
		assert.Equal(t, 100, progs[1].ID)
	})

	t.Run("another regional sees none of them", func(t *testing.T) {
		other := core.Actor{Role: core.RoleInstitutionRegional, SubjectID: 99}
		progs, err := fix.resolver.VisibleProgrammes(ctx, other, scope.Filters{})
		require.NoError(t, err)
		assert.Empty(t, progs)
	})

	t.Run("national sees all programmes", func(t *testing.T) {
		progs, err := fix.resolver.VisibleProgrammes(ctx, national, scope.Filters{})
		require.NoError(t, err)
		assert.Len(t, progs, 2)
	})

	t.Run("training institution sees nothing", func(t *testing.T) {
		progs, err := fix.resolver.VisibleProgrammes(ctx, training, scope.Filters{})
		require.NoError(t, err)
		assert.Empty(t, progs)
	})
}

func Test_Resolver_VisibleEnrollments(t *testing.T) {
	fix := setup(t)

	t.Run("trainee sees their own requests in all states", func(t *testing.T) {
		enrs, err := fix.resolver.VisibleEnrollments(ctx, trainee, scope.Filters{})
		require.NoError(t, err)
		require.Len(t, enrs, 1)
		assert.Equal(t, 70, enrs[0].ID)
	})

	t.Run("training institution sees enrollments on its own offers", func(t *testing.T) {
		enrs, err := fix.resolver.VisibleEnrollments(ctx, training, scope.Filters{})
		require.NoError(t, err)
		require.Len(t, enrs, 2) // not 72, offer 51 belongs to institution 33
		assert.Equal(t, 71, enrs[0].ID)
		assert.Equal(t, 70, enrs[1].ID)
	})

	t.Run("training institution can narrow by status", func(t *testing.T) {
		enrs, err := fix.resolver.VisibleEnrollments(ctx, training, scope.Filters{Status: workflow.StatusPending})
		require.NoError(t, err)
		require.Len(t, enrs, 1)
		assert.Equal(t, 70, enrs[0].ID)
	})

	t.Run("teacher sees nothing", func(t *testing.T) {
		enrs, err := fix.resolver.VisibleEnrollments(ctx, teacher, scope.Filters{})
		require.NoError(t, err)
		assert.Empty(t, enrs)
	})
}

func Test_Resolver_VisibleMemoirs(t *testing.T) {
	fix := setup(t)

	t.Run("trainee sees their own plus accepted peer memoirs", func(t *testing.T) {
		mems, err := fix.resolver.VisibleMemoirs(ctx, trainee, scope.Filters{})
		require.NoError(t, err)
		require.Len(t, mems, 2)
		assert.Equal(t, 120, mems[0].ID) // own, whatever its status
		assert.Equal(t, 121, mems[1].ID) // peer on offer 50, accepted
	})

	t.Run("peer trainee does not see an unaccepted memoir", func(t *testing.T) {
		peer := core.Actor{Role: core.RoleTrainee, SubjectID: 21}
		mems, err := fix.resolver.VisibleMemoirs(ctx, peer, scope.Filters{})
		require.NoError(t, err)
		require.Len(t, mems, 1) // own only; memoir 120 is submitted, not accepted
		assert.Equal(t, 121, mems[0].ID)
	})

	t.Run("trainee with no enrollments and no memoir sees nothing", func(t *testing.T) {
		loner := fix.db.AddTrainee(catalog.Trainee{ID: 22, Email: "yani@example.com"})
		mems, err := fix.resolver.VisibleMemoirs(ctx, core.Actor{Role: core.RoleTrainee, SubjectID: loner.ID}, scope.Filters{})
		require.NoError(t, err)
		assert.Empty(t, mems)
	})

	t.Run("teacher sees supervised memoirs in all states", func(t *testing.T) {
		mems, err := fix.resolver.VisibleMemoirs(ctx, teacher, scope.Filters{})
		require.NoError(t, err)
		require.Len(t, mems, 1)
		assert.Equal(t, 120, mems[0].ID)
	})

	t.Run("regional sees nothing", func(t *testing.T) {
		mems, err := fix.resolver.VisibleMemoirs(ctx, regional, scope.Filters{})
		require.NoError(t, err)
		assert.Empty(t, mems)
	})
}

func Test_Resolver_Decidable(t *testing.T) {
	fix := setup(t)

	tests := []struct {
		name    string
		actor   core.Actor
		kind    workflow.Kind
		id      int
		target  workflow.Status
		wantErr error
	}{
		{name: "national decides programme", actor: national, kind: workflow.KindProgramme, id: 101, target: workflow.StatusAccepted},
		{name: "regional cannot decide programme", actor: regional, kind: workflow.KindProgramme, id: 101, target: workflow.StatusAccepted, wantErr: core.ErrNotAuthorized},
		{name: "national cannot push a programme back to pending", actor: national, kind: workflow.KindProgramme, id: 101, target: workflow.StatusPending, wantErr: core.ErrNotAuthorized},
		{name: "missing programme", actor: national, kind: workflow.KindProgramme, id: 999, target: workflow.StatusAccepted, wantErr: curriculum.ErrProgrammeNotFound},
		{name: "national decides course", actor: national, kind: workflow.KindCourse, id: 111, target: workflow.StatusRefused},
		{name: "teacher cannot decide own course", actor: teacher, kind: workflow.KindCourse, id: 111, target: workflow.StatusAccepted, wantErr: core.ErrNotAuthorized},
		{name: "national cannot push a course back to pending", actor: national, kind: workflow.KindCourse, id: 111, target: workflow.StatusPending, wantErr: core.ErrNotAuthorized},
		{name: "owning institution decides enrollment", actor: training, kind: workflow.KindEnrollment, id: 70, target: workflow.StatusAccepted},
		{name: "owning institution cannot cancel an enrollment", actor: training, kind: workflow.KindEnrollment, id: 70, target: workflow.StatusCancelled, wantErr: core.ErrNotAuthorized},
		{name: "other institution cannot decide enrollment", actor: core.Actor{Role: core.RoleInstitutionTraining, SubjectID: 33}, kind: workflow.KindEnrollment, id: 70, target: workflow.StatusAccepted, wantErr: core.ErrNotAuthorized},
		{name: "trainee cancels own pending enrollment", actor: trainee, kind: workflow.KindEnrollment, id: 70, target: workflow.StatusCancelled},
		{name: "trainee cannot accept own enrollment", actor: trainee, kind: workflow.KindEnrollment, id: 70, target: workflow.StatusAccepted, wantErr: core.ErrNotAuthorized},
		{name: "trainee cannot cancel a peer's enrollment", actor: trainee, kind: workflow.KindEnrollment, id: 71, target: workflow.StatusCancelled, wantErr: core.ErrNotAuthorized},
		{name: "trainee cannot cancel a decided enrollment", actor: core.Actor{Role: core.RoleTrainee, SubjectID: 21}, kind: workflow.KindEnrollment, id: 71, target: workflow.StatusCancelled, wantErr: core.ErrNotAuthorized},
		{name: "missing enrollment", actor: training, kind: workflow.KindEnrollment, id: 999, target: workflow.StatusAccepted, wantErr: enrollment.ErrNotFound},
		{name: "supervising teacher decides memoir", actor: teacher, kind: workflow.KindMemoir, id: 120, target: workflow.StatusAccepted},
		{name: "supervising teacher cannot push a memoir back to submitted", actor: teacher, kind: workflow.KindMemoir, id: 120, target: workflow.StatusSubmitted, wantErr: core.ErrNotAuthorized},
		{name: "other teacher cannot decide memoir", actor: core.Actor{Role: core.RoleTeacher, SubjectID: 11}, kind: workflow.KindMemoir, id: 120, target: workflow.StatusAccepted, wantErr: core.ErrNotAuthorized},
		{name: "trainee cannot decide own memoir", actor: trainee, kind: workflow.KindMemoir, id: 120, target: workflow.StatusAccepted, wantErr: core.ErrNotAuthorized},
		{name: "missing memoir", actor: teacher, kind: workflow.KindMemoir, id: 999, target: workflow.StatusAccepted, wantErr: memoir.ErrNotFound},
		{name: "unknown kind", actor: national, kind: workflow.Kind("diploma"), id: 1, target: workflow.StatusAccepted, wantErr: core.ErrNotAuthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fix.resolver.Decidable(ctx, tt.actor, tt.kind, tt.id, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
