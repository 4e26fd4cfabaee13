package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/decision"
	"github.com/trezcool/ufundi/core/enrollment"
	"github.com/trezcool/ufundi/core/scope"
	"github.com/trezcool/ufundi/core/workflow"
)

type enrollmentApi struct {
	svc      *enrollment.Service
	decSvc   *decision.Service
	resolver *scope.Resolver
	validate *validator.Validate
}

func registerEnrollmentAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *enrollment.Service,
	decSvc *decision.Service,
	resolver *scope.Resolver,
	validate *validator.Validate,
) {
	api := enrollmentApi{svc: svc, decSvc: decSvc, resolver: resolver, validate: validate}

	eg := g.Group("/enrollments", jwt)
	eg.POST("", api.apply, roleMiddleware(core.RoleTrainee))
	eg.GET("", api.query)
	eg.POST("/decide", api.decide)
}

// Handlers

func (api *enrollmentApi) apply(ctx echo.Context) error {
	var data enrollment.NewEnrollment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	enr, err := api.svc.Apply(ctx.Request().Context(), actor, data, api.validate)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, enr)
}

func (api *enrollmentApi) query(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	enrs, err := api.resolver.VisibleEnrollments(ctx.Request().Context(), actor, bindScopeFilters(ctx))
	if err != nil {
		return errors.Wrap(err, "resolving visible enrollments")
	}
	return ctx.JSON(http.StatusOK, enrs)
}

// decide accepts/refuses (owning training institution) or cancels (owning trainee,
// pending only) enrollment requests; scope is enforced downstream.
func (api *enrollmentApi) decide(ctx echo.Context) error {
	return handleDecide(ctx, api.decSvc, workflow.KindEnrollment)
}
