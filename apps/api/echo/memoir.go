package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/decision"
	"github.com/trezcool/ufundi/core/memoir"
	"github.com/trezcool/ufundi/core/scope"
	"github.com/trezcool/ufundi/core/workflow"
)

type memoirApi struct {
	svc      *memoir.Service
	decSvc   *decision.Service
	resolver *scope.Resolver
}

func registerMemoirAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *memoir.Service,
	decSvc *decision.Service,
	resolver *scope.Resolver,
) {
	api := memoirApi{svc: svc, decSvc: decSvc, resolver: resolver}

	mg := g.Group("/memoirs", jwt)
	mg.GET("", api.query)
	mg.PUT("/:id", api.update, roleMiddleware(core.RoleTrainee))
	mg.POST("/:id/resubmit", api.resubmit, roleMiddleware(core.RoleTrainee))
	mg.POST("/decide", api.decide, roleMiddleware(core.RoleTeacher))
}

// Handlers

func (api *memoirApi) query(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	mems, err := api.resolver.VisibleMemoirs(ctx.Request().Context(), actor, bindScopeFilters(ctx))
	if err != nil {
		return errors.Wrap(err, "resolving visible memoirs")
	}
	return ctx.JSON(http.StatusOK, mems)
}

func (api *memoirApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	var data memoir.UpdateMemoir
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMemoir")
	}

	mem, err := api.svc.Update(ctx.Request().Context(), actor, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mem)
}

func (api *memoirApi) resubmit(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	mem, err := api.svc.Resubmit(ctx.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mem)
}

// decide accepts/refuses a memoir; only its supervising teacher passes the scope check.
func (api *memoirApi) decide(ctx echo.Context) error {
	return handleDecide(ctx, api.decSvc, workflow.KindMemoir)
}
