package decision

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/catalog"
	"github.com/trezcool/ufundi/core/curriculum"
	"github.com/trezcool/ufundi/core/enrollment"
	"github.com/trezcool/ufundi/core/memoir"
	"github.com/trezcool/ufundi/core/scope"
	"github.com/trezcool/ufundi/core/workflow"
)

var (
	// errors
	ErrNotFound = errors.New("entity not found")
)

type (
	// Repository persists decisions. ApplyDecision must write the new entity state
	// and append the log record atomically for that one entity; atomicity never
	// spans entities (best-effort batch contract).
	Repository interface {
		GetState(ctx context.Context, kind workflow.Kind, id int) (workflow.State, error)
		ApplyDecision(ctx context.Context, kind workflow.Kind, id int, st workflow.State, rec Record) error
		// OwnerEmail returns the email address of the entity's owning actor, for
		// decision notifications.
		OwnerEmail(ctx context.Context, kind workflow.Kind, id int) (string, error)
		QueryRecords(ctx context.Context, filter RecordFilter, ordering ...core.DBOrdering) ([]Record, error)
	}

	Service struct {
		repo     Repository
		resolver *scope.Resolver
		mailSvc  core.EmailService
		logger   core.Logger
	}
)

func NewService(repo Repository, resolver *scope.Resolver, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, mailSvc: mailSvc, logger: logger}
}

// Decide applies a single status transition: scope check, then Status Engine
// validation, then an atomic state-write + log-append for that entity.
func (svc *Service) Decide(ctx context.Context, actor core.Actor, kind workflow.Kind, id int, target workflow.Status, observation string) (workflow.State, error) {
	observation = core.CleanString(observation)

	if err := svc.resolver.Decidable(ctx, actor, kind, id, target); err != nil {
		countSkip(kind, err)
		return workflow.State{}, err
	}

	st, err := svc.repo.GetState(ctx, kind, id)
	if err != nil {
		countSkip(kind, err)
		return workflow.State{}, err
	}

	now := time.Now()
	newSt, err := workflow.Apply(kind, st, target, observation, now)
	if err != nil {
		countSkip(kind, err)
		return workflow.State{}, err
	}

	rec := Record{
		ID:          uuid.New().String(),
		Kind:        kind,
		EntityID:    id,
		ActorRole:   actor.Role,
		ActorID:     actor.SubjectID,
		FromStatus:  st.Status,
		ToStatus:    target,
		Observation: observation,
		DecidedAt:   now.UTC(),
	}
	if err = svc.repo.ApplyDecision(ctx, kind, id, newSt, rec); err != nil {
		return workflow.State{}, errors.Wrap(err, "persisting decision")
	}

	decisionsApplied.WithLabelValues(string(kind), string(target)).Inc()
	svc.notifyOwner(ctx, kind, id, target, observation)
	return newSt, nil
}

// DecideBulk applies one target status and one shared observation to each entity id
// independently: entries that pass are persisted, entries that fail are reported in
// their Outcome, and a single bad id never blocks the rest. There is no global
// rollback. Context cancellation stops further entries; already-applied ones stay
// applied.
func (svc *Service) DecideBulk(ctx context.Context, actor core.Actor, kind workflow.Kind, ids []int, target workflow.Status, observation string) (Result, error) {
	res := Result{Outcomes: make([]Outcome, 0, len(ids))}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if _, err := svc.Decide(ctx, actor, kind, id, target, observation); err != nil {
			reason := skipReason(err)
			if reason == "" {
				// unexpected (store) failure: abort the batch
				return res, err
			}
			res.Skipped++
			res.Outcomes = append(res.Outcomes, Outcome{EntityID: id, Reason: reason, Detail: err.Error()})
			continue
		}
		res.Applied++
		res.Outcomes = append(res.Outcomes, Outcome{EntityID: id, Applied: true})
	}
	return res, nil
}

// QueryRecords lists the decision log; national institution only.
func (svc *Service) QueryRecords(ctx context.Context, actor core.Actor, filter RecordFilter) ([]Record, error) {
	if !actor.IsNational() {
		return nil, core.ErrNotAuthorized
	}
	return svc.repo.QueryRecords(ctx, filter, core.DBOrdering{Field: "decided_at", Ascending: false})
}

// countSkip records a classified skip in the metrics. Unexpected errors carry no
// skip reason and are not counted; they fail the operation instead.
func countSkip(kind workflow.Kind, err error) {
	if reason := skipReason(err); reason != "" {
		decisionsSkipped.WithLabelValues(string(kind), reason).Inc()
	}
}

// skipReason classifies an error as a per-entry skip reason; empty means the error
// is unexpected and should fail the operation instead.
func skipReason(err error) string {
	cause := errors.Cause(err)
	if terr, ok := cause.(*workflow.TransitionError); ok {
		return string(terr.Reason)
	}
	switch cause {
	case core.ErrNotAuthorized:
		return ReasonNotAuthorized
	case ErrNotFound,
		curriculum.ErrProgrammeNotFound, curriculum.ErrCourseNotFound,
		enrollment.ErrNotFound, memoir.ErrNotFound, catalog.ErrOfferNotFound:
		return ReasonNotFound
	default:
		return ""
	}
}

// notifyOwner emails the owning actor about the decision; failures are logged, never
// surfaced. Messages are sent concurrently by the email service.
func (svc *Service) notifyOwner(ctx context.Context, kind workflow.Kind, id int, target workflow.Status, observation string) {
	email, err := svc.repo.OwnerEmail(ctx, kind, id)
	if err != nil || email == "" {
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("looking up %s %d owner email: %v", kind, id, err))
		}
		return
	}

	body := fmt.Sprintf("Your %s has been %s.", kind, target)
	if observation != "" {
		body += "\n\nObservation: " + observation
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: email}},
		Subject: fmt.Sprintf("Your %s has been %s", kind, target),
		Body:    body,
	})
}
