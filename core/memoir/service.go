package memoir

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/workflow"
)

var (
	// errors
	ErrNotFound = errors.New("memoir not found")
)

type (
	Repository interface {
		CreateMemoir(ctx context.Context, mem Memoir) (Memoir, error)
		GetMemoir(ctx context.Context, id int) (Memoir, error)
		// GetMemoirByTrainee returns the trainee's memoir; a trainee has at most one.
		GetMemoirByTrainee(ctx context.Context, traineeID int) (Memoir, error)
		QueryMemoirs(ctx context.Context, filter Filter, ordering ...core.DBOrdering) ([]Memoir, error)
		UpdateMemoir(ctx context.Context, mem Memoir) (Memoir, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context, id int) (Memoir, error) {
	return svc.repo.GetMemoir(ctx, id)
}

// Update edits the memoir's content. Only the owning trainee, and only while the
// memoir has not been accepted.
func (svc *Service) Update(ctx context.Context, actor core.Actor, id int, um UpdateMemoir) (Memoir, error) {
	mem, err := svc.repo.GetMemoir(ctx, id)
	if err != nil {
		return Memoir{}, err
	}
	if !actor.IsTrainee() || mem.TraineeID != actor.SubjectID {
		return Memoir{}, core.ErrNotAuthorized
	}
	if err = workflow.EditableContent(workflow.KindMemoir, mem.State); err != nil {
		return Memoir{}, err
	}

	um.Clean()
	if um.Title != "" {
		mem.Title = um.Title
	}
	if um.Document != "" {
		mem.Document = um.Document
	}
	mem.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMemoir(ctx, mem)
}

// Resubmit returns a refused memoir to submitted for a new decision cycle.
func (svc *Service) Resubmit(ctx context.Context, actor core.Actor, id int) (Memoir, error) {
	mem, err := svc.repo.GetMemoir(ctx, id)
	if err != nil {
		return Memoir{}, err
	}
	if !actor.IsTrainee() || mem.TraineeID != actor.SubjectID {
		return Memoir{}, core.ErrNotAuthorized
	}
	if mem.State, err = workflow.Resubmit(workflow.KindMemoir, mem.State, time.Now()); err != nil {
		return Memoir{}, err
	}
	return svc.repo.UpdateMemoir(ctx, mem)
}
