package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/curriculum"
	"github.com/trezcool/ufundi/core/decision"
	"github.com/trezcool/ufundi/core/scope"
	"github.com/trezcool/ufundi/core/workflow"
)

type curriculumApi struct {
	svc      *curriculum.Service
	decSvc   *decision.Service
	resolver *scope.Resolver
	validate *validator.Validate
}

func registerCurriculumAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *curriculum.Service,
	decSvc *decision.Service,
	resolver *scope.Resolver,
	validate *validator.Validate,
) {
	api := curriculumApi{svc: svc, decSvc: decSvc, resolver: resolver, validate: validate}

	pg := g.Group("/programmes", jwt)
	pg.POST("", api.submitProgramme, roleMiddleware(core.RoleInstitutionRegional))
	pg.GET("", api.queryProgrammes)
	pg.PUT("/:id", api.updateProgramme, roleMiddleware(core.RoleInstitutionRegional))
	pg.POST("/:id/resubmit", api.resubmitProgramme, roleMiddleware(core.RoleInstitutionRegional))
	pg.POST("/decide", api.decideProgramme, roleMiddleware(core.RoleInstitutionNational))

	cg := g.Group("/courses", jwt)
	cg.POST("", api.submitCourse, roleMiddleware(core.RoleTeacher))
	cg.GET("", api.queryCourses)
	cg.PUT("/:id", api.updateCourse, roleMiddleware(core.RoleTeacher))
	cg.POST("/:id/resubmit", api.resubmitCourse, roleMiddleware(core.RoleTeacher))
	cg.POST("/decide", api.decideCourse, roleMiddleware(core.RoleInstitutionNational))
}

// Programme handlers

func (api *curriculumApi) submitProgramme(ctx echo.Context) error {
	var data curriculum.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	prog, err := api.svc.SubmitProgramme(ctx.Request().Context(), actor, data, api.validate)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, prog)
}

func (api *curriculumApi) queryProgrammes(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	progs, err := api.resolver.VisibleProgrammes(ctx.Request().Context(), actor, bindScopeFilters(ctx))
	if err != nil {
		return errors.Wrap(err, "resolving visible programmes")
	}
	return ctx.JSON(http.StatusOK, progs)
}

func (api *curriculumApi) updateProgramme(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	var data curriculum.UpdateSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubmission")
	}

	prog, err := api.svc.UpdateProgramme(ctx.Request().Context(), actor, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *curriculumApi) resubmitProgramme(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	prog, err := api.svc.ResubmitProgramme(ctx.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prog)
}

func (api *curriculumApi) decideProgramme(ctx echo.Context) error {
	return handleDecide(ctx, api.decSvc, workflow.KindProgramme)
}

// Course handlers

func (api *curriculumApi) submitCourse(ctx echo.Context) error {
	var data curriculum.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	course, err := api.svc.SubmitCourse(ctx.Request().Context(), actor, data, api.validate)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, course)
}

func (api *curriculumApi) queryCourses(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	courses, err := api.resolver.VisibleCourses(ctx.Request().Context(), actor, bindScopeFilters(ctx))
	if err != nil {
		return errors.Wrap(err, "resolving visible courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *curriculumApi) updateCourse(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	var data curriculum.UpdateSubmission
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubmission")
	}

	course, err := api.svc.UpdateCourse(ctx.Request().Context(), actor, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *curriculumApi) resubmitCourse(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	course, err := api.svc.ResubmitCourse(ctx.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, course)
}

func (api *curriculumApi) decideCourse(ctx echo.Context) error {
	return handleDecide(ctx, api.decSvc, workflow.KindCourse)
}
