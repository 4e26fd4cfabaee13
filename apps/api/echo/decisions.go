package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/decision"
	"github.com/trezcool/ufundi/core/workflow"
)

// DecideRequest applies a status transition to one entity (id) or many (ids).
// With ids, each entry succeeds or fails on its own; there is no global rollback.
type DecideRequest struct {
	ID          int             `json:"id,omitempty"`
	IDs         []int           `json:"ids,omitempty"`
	Status      workflow.Status `json:"status"`
	Observation string          `json:"observation,omitempty"`
}

func (dr *DecideRequest) Validate() error {
	dr.Observation = core.CleanString(dr.Observation)
	if dr.Status == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "this field is required"})
	}
	if dr.ID == 0 && len(dr.IDs) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "id or ids is required"})
	}
	return nil
}

// handleDecide serves the per-kind "/decide" endpoints.
func handleDecide(ctx echo.Context, svc *decision.Service, kind workflow.Kind) error {
	var data DecideRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DecideRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	if len(data.IDs) > 0 {
		res, err := svc.DecideBulk(ctx.Request().Context(), actor, kind, data.IDs, data.Status, data.Observation)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, res)
	}

	st, err := svc.Decide(ctx.Request().Context(), actor, kind, data.ID, data.Status, data.Observation)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

type decisionApi struct {
	svc *decision.Service
}

func registerDecisionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *decision.Service) {
	api := decisionApi{svc: svc}

	dg := g.Group("/decisions", jwt)
	dg.GET("", api.queryRecords, roleMiddleware(core.RoleInstitutionNational))
}

// queryRecords lists the append-only decision log, latest first.
func (api *decisionApi) queryRecords(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	var entityID int
	if raw := ctx.QueryParam("entity_id"); raw != "" {
		if entityID, err = atoiParam(raw, "entity_id"); err != nil {
			return err
		}
	}
	filter := decision.RecordFilter{
		Kind:     workflow.Kind(ctx.QueryParam("kind")),
		EntityID: entityID,
	}

	recs, err := api.svc.QueryRecords(ctx.Request().Context(), actor, filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, recs)
}
