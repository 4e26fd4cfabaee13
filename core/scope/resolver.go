// Package scope computes the subset of entities an actor may read or decide on,
// by walking the relevant join paths (teacher -> assigned modules -> courses,
// trainee -> enrollments -> offers, institution -> owned artifacts).
//
// Reads are read-only by contract and recomputed per call against the current
// store snapshot; nothing is cached across requests. An actor whose role has no
// defined read scope for a given entity type gets an empty result, not an error
// (matching the behavior existing callers rely on); write authorization
// (Decidable) is strict and surfaces core.ErrNotAuthorized.
package scope

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/assignment"
	"github.com/trezcool/ufundi/core/catalog"
	"github.com/trezcool/ufundi/core/curriculum"
	"github.com/trezcool/ufundi/core/enrollment"
	"github.com/trezcool/ufundi/core/memoir"
	"github.com/trezcool/ufundi/core/workflow"
)

type Resolver struct {
	catalogRepo catalog.Repository
	asgRepo     assignment.Repository
	currRepo    curriculum.Repository
	enrRepo     enrollment.Repository
	memRepo     memoir.Repository
}

func NewResolver(
	catalogRepo catalog.Repository,
	asgRepo assignment.Repository,
	currRepo curriculum.Repository,
	enrRepo enrollment.Repository,
	memRepo memoir.Repository,
) *Resolver {
	return &Resolver{
		catalogRepo: catalogRepo,
		asgRepo:     asgRepo,
		currRepo:    currRepo,
		enrRepo:     enrRepo,
		memRepo:     memRepo,
	}
}

// Filters narrows a scoped listing; zero values mean no narrowing.
type Filters struct {
	Status workflow.Status
}

// VisibleCourses resolves the course set the actor may read, most recent first.
//   - teacher: accepted courses whose module is in their current assignment set
//   - national institution: all courses
//   - anyone else: empty
func (r *Resolver) VisibleCourses(ctx context.Context, actor core.Actor, f Filters) ([]curriculum.Course, error) {
	switch {
	case actor.IsTeacher():
		moduleIDs, err := r.asgRepo.QueryTeacherModuleIDs(ctx, actor.SubjectID)
		if err != nil {
			return nil, errors.Wrap(err, "querying teacher module set")
		}
		if len(moduleIDs) == 0 {
			return []curriculum.Course{}, nil
		}
		return r.currRepo.QueryCourses(ctx, curriculum.CourseFilter{
			ModuleIDs: moduleIDs,
			Status:    workflow.StatusAccepted,
		}, core.DescID...)
	case actor.IsNational():
		return r.currRepo.QueryCourses(ctx, curriculum.CourseFilter{Status: f.Status}, core.DescID...)
	default:
		return []curriculum.Course{}, nil
	}
}

// VisibleProgrammes resolves the programme set the actor may read, most recent first.
//   - teacher: accepted programmes for their currently assigned modules
//   - regional institution: its own programmes, any status
//   - national institution: all programmes
//   - anyone else: empty
func (r *Resolver) VisibleProgrammes(ctx context.Context, actor core.Actor, f Filters) ([]curriculum.Programme, error) {
	switch {
	case actor.IsTeacher():
		moduleIDs, err := r.asgRepo.QueryTeacherModuleIDs(ctx, actor.SubjectID)
		if err != nil {
			return nil, errors.Wrap(err, "querying teacher module set")
		}
		if len(moduleIDs) == 0 {
			return []curriculum.Programme{}, nil
		}
		return r.currRepo.QueryProgrammes(ctx, curriculum.ProgrammeFilter{
			ModuleIDs: moduleIDs,
			Status:    workflow.StatusAccepted,
		}, core.DescID...)
	case actor.IsRegional():
		return r.currRepo.QueryProgrammes(ctx, curriculum.ProgrammeFilter{
			InstitutionID: actor.SubjectID,
			Status:        f.Status,
		}, core.DescID...)
	case actor.IsNational():
		return r.currRepo.QueryProgrammes(ctx, curriculum.ProgrammeFilter{Status: f.Status}, core.DescID...)
	default:
		return []curriculum.Programme{}, nil
	}
}

// VisibleEnrollments resolves the enrollment set the actor may read, most recent first.
//   - trainee: their own requests, all states
//   - training institution: enrollments against its own offers
//   - anyone else: empty
func (r *Resolver) VisibleEnrollments(ctx context.Context, actor core.Actor, f Filters) ([]enrollment.Enrollment, error) {
	switch {
	case actor.IsTrainee():
		return r.enrRepo.QueryEnrollments(ctx, enrollment.Filter{
			TraineeID: actor.SubjectID,
			Status:    f.Status,
		}, core.DescID...)
	case actor.IsTraining():
		offers, err := r.catalogRepo.QueryOffers(ctx, catalog.OfferFilter{InstitutionID: actor.SubjectID})
		if err != nil {
			return nil, errors.Wrap(err, "querying institution offers")
		}
		if len(offers) == 0 {
			return []enrollment.Enrollment{}, nil
		}
		offerIDs := make([]int, 0, len(offers))
		for _, o := range offers {
			offerIDs = append(offerIDs, o.ID)
		}
		return r.enrRepo.QueryEnrollments(ctx, enrollment.Filter{
			OfferIDs: offerIDs,
			Status:   f.Status,
		}, core.DescID...)
	default:
		return []enrollment.Enrollment{}, nil
	}
}

// VisibleMemoirs resolves the memoir set the actor may read, most recent first.
//   - trainee: their own memoir plus accepted memoirs of peers sharing at least one
//     training offer (the "collaborative" scope)
//   - teacher: memoirs they supervise, all states
//   - anyone else: empty
func (r *Resolver) VisibleMemoirs(ctx context.Context, actor core.Actor, f Filters) ([]memoir.Memoir, error) {
	switch {
	case actor.IsTrainee():
		own, err := r.memRepo.QueryMemoirs(ctx, memoir.Filter{
			TraineeID: actor.SubjectID,
			Status:    f.Status,
		}, core.DescID...)
		if err != nil {
			return nil, err
		}
		peers, err := r.collaborativeMemoirs(ctx, actor.SubjectID)
		if err != nil {
			return nil, err
		}
		return append(own, peers...), nil
	case actor.IsTeacher():
		return r.memRepo.QueryMemoirs(ctx, memoir.Filter{
			TeacherID: actor.SubjectID,
			Status:    f.Status,
		}, core.DescID...)
	default:
		return []memoir.Memoir{}, nil
	}
}

// collaborativeMemoirs walks trainee -> offers -> co-enrolled trainees -> accepted
// memoirs, excluding the requester's own.
func (r *Resolver) collaborativeMemoirs(ctx context.Context, traineeID int) ([]memoir.Memoir, error) {
	offerIDs, err := r.enrRepo.QueryTraineeOfferIDs(ctx, traineeID)
	if err != nil {
		return nil, errors.Wrap(err, "querying trainee offers")
	}
	if len(offerIDs) == 0 {
		return nil, nil
	}
	peerIDs, err := r.enrRepo.QueryTraineeIDsByOffers(ctx, offerIDs)
	if err != nil {
		return nil, errors.Wrap(err, "querying co-enrolled trainees")
	}
	if len(peerIDs) == 0 {
		return nil, nil
	}
	return r.memRepo.QueryMemoirs(ctx, memoir.Filter{
		TraineeIDs:       peerIDs,
		ExcludeTraineeID: traineeID,
		Status:           workflow.StatusAccepted,
	}, core.DescID...)
}

// isDecisionTarget reports whether target is a status a decider may hand down.
// Other statuses are reached through the owner's own flows (submit, resubmit,
// cancel), never through a decision.
func isDecisionTarget(target workflow.Status) bool {
	return target == workflow.StatusAccepted || target == workflow.StatusRefused
}

// Decidable checks whether the actor may apply the target status to the entity.
// Unlike reads, unauthorized writes are never a silent empty set: the entity's
// absence surfaces the domain not-found error and lack of scope surfaces
// core.ErrNotAuthorized. Transition legality from the current status stays with
// the Status Engine; Decidable pins each decider to its decision targets:
// accepted or refused, plus cancelled for a trainee on their own pending request.
func (r *Resolver) Decidable(ctx context.Context, actor core.Actor, kind workflow.Kind, id int, target workflow.Status) error {
	switch kind {
	case workflow.KindProgramme:
		if _, err := r.currRepo.GetProgramme(ctx, id); err != nil {
			return err
		}
		if !actor.IsNational() || !isDecisionTarget(target) {
			return core.ErrNotAuthorized
		}
		return nil

	case workflow.KindCourse:
		if _, err := r.currRepo.GetCourse(ctx, id); err != nil {
			return err
		}
		if !actor.IsNational() || !isDecisionTarget(target) {
			return core.ErrNotAuthorized
		}
		return nil

	case workflow.KindEnrollment:
		enr, err := r.enrRepo.GetEnrollment(ctx, id)
		if err != nil {
			return err
		}
		// a trainee may cancel their own pending request
		if actor.IsTrainee() {
			if enr.TraineeID == actor.SubjectID && target == workflow.StatusCancelled && enr.Status == workflow.StatusPending {
				return nil
			}
			return core.ErrNotAuthorized
		}
		if actor.IsTraining() {
			offer, err := r.catalogRepo.GetOffer(ctx, enr.OfferID)
			if err != nil {
				return err
			}
			if offer.InstitutionID == actor.SubjectID && isDecisionTarget(target) {
				return nil
			}
		}
		return core.ErrNotAuthorized

	case workflow.KindMemoir:
		mem, err := r.memRepo.GetMemoir(ctx, id)
		if err != nil {
			return err
		}
		if actor.IsTeacher() && mem.TeacherID == actor.SubjectID && isDecisionTarget(target) {
			return nil
		}
		return core.ErrNotAuthorized

	default:
		return core.ErrNotAuthorized
	}
}
