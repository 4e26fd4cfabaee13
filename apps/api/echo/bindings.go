package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/scope"
	"github.com/trezcool/ufundi/core/workflow"
)

var statusParam = "status"

// bindScopeFilters reads the optional ?status= narrowing for scoped listings.
func bindScopeFilters(ctx echo.Context) scope.Filters {
	return scope.Filters{Status: workflow.Status(ctx.QueryParam(statusParam))}
}

// pathID parses the :id path param.
func pathID(ctx echo.Context) (int, error) {
	return atoiParam(ctx.Param("id"), "id")
}

func atoiParam(raw, field string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: field, Error: "invalid " + field})
	}
	return v, nil
}
