package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/assignment"
)

type assignmentApi struct {
	svc      *assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assignment.Service, validate *validator.Validate) {
	api := assignmentApi{svc: svc, validate: validate}

	ag := g.Group("/assignments", jwt)
	ag.GET("", api.query, roleMiddleware(core.RoleInstitution))
	ag.POST("/modules", api.assignModule, roleMiddleware(core.RoleInstitutionTraining))
	ag.DELETE("/modules", api.unassignModule, roleMiddleware(core.RoleInstitutionTraining))
	ag.POST("/supervisor", api.assignSupervisor, roleMiddleware(core.RoleInstitutionTraining))
}

// Handlers

func (api *assignmentApi) query(ctx echo.Context) error {
	var teacherID, moduleID int
	var err error
	if raw := ctx.QueryParam("teacher_id"); raw != "" {
		if teacherID, err = atoiParam(raw, "teacher_id"); err != nil {
			return err
		}
	}
	if raw := ctx.QueryParam("module_id"); raw != "" {
		if moduleID, err = atoiParam(raw, "module_id"); err != nil {
			return err
		}
	}
	filter := assignment.Filter{
		TeacherID:    teacherID,
		ModuleID:     moduleID,
		AcademicYear: ctx.QueryParam("academic_year"),
		Semester:     ctx.QueryParam("semester"),
	}

	asgs, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, asgs)
}

// assignModule grants a module to a teacher for a period. Re-submitting an identical
// grant is a no-op success (200), a fresh grant is a 201.
func (api *assignmentApi) assignModule(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}

	asg, duplicate, err := api.svc.AssignModule(ctx.Request().Context(), data, api.validate)
	if err != nil {
		return err
	}
	if duplicate {
		return ctx.JSON(http.StatusOK, asg)
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) unassignModule(ctx echo.Context) error {
	teacherID, err := atoiParam(ctx.QueryParam("teacher_id"), "teacher_id")
	if err != nil {
		return err
	}
	moduleID, err := atoiParam(ctx.QueryParam("module_id"), "module_id")
	if err != nil {
		return err
	}
	year := ctx.QueryParam("academic_year")
	if year == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "academic_year", Error: "this field is required"})
	}

	if err = api.svc.Unassign(ctx.Request().Context(), teacherID, moduleID, year); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assignmentApi) assignSupervisor(ctx echo.Context) error {
	var data assignment.NewSupervision
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSupervision")
	}

	mem, err := api.svc.AssignSupervisor(ctx.Request().Context(), data, api.validate)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, mem)
}
