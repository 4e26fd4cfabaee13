package echoapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/catalog"
)

type catalogApi struct {
	svc      *catalog.Service
	validate *validator.Validate
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *catalog.Service, validate *validator.Validate) {
	api := catalogApi{svc: svc, validate: validate}

	cg := g.Group("/catalog", jwt)
	cg.GET("/specialties", api.querySpecialties)
	cg.GET("/modules", api.queryModules)

	og := g.Group("/offers", jwt)
	og.GET("", api.queryOffers)
	og.POST("", api.createOffer, roleMiddleware(core.RoleInstitutionTraining))
	og.POST("/:id/activate", api.activateOffer, roleMiddleware(core.RoleInstitutionTraining))
	og.POST("/:id/archive", api.archiveOffer, roleMiddleware(core.RoleInstitutionTraining))
}

// Handlers

func (api *catalogApi) querySpecialties(ctx echo.Context) error {
	specialties, err := api.svc.QuerySpecialties(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying specialties")
	}
	return ctx.JSON(http.StatusOK, specialties)
}

func (api *catalogApi) queryModules(ctx echo.Context) error {
	var specialtyID int
	if raw := ctx.QueryParam("specialty_id"); raw != "" {
		var err error
		if specialtyID, err = strconv.Atoi(raw); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "specialty_id", Error: "invalid id"})
		}
	}

	modules, err := api.svc.QueryModules(ctx.Request().Context(), specialtyID)
	if err != nil {
		return errors.Wrap(err, "querying modules")
	}
	return ctx.JSON(http.StatusOK, modules)
}

func (api *catalogApi) createOffer(ctx echo.Context) error {
	var data catalog.NewOffer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOffer")
	}

	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	offer, err := api.svc.CreateOffer(ctx.Request().Context(), actor, data, api.validate)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, offer)
}

func (api *catalogApi) queryOffers(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	filter := catalog.OfferFilter{Status: ctx.QueryParam(statusParam)}
	offers, err := api.svc.QueryOffers(ctx.Request().Context(), actor, filter)
	if err != nil {
		return errors.Wrap(err, "querying offers")
	}
	return ctx.JSON(http.StatusOK, offers)
}

func (api *catalogApi) activateOffer(ctx echo.Context) error {
	return api.setOfferStatus(ctx, api.svc.ActivateOffer)
}

func (api *catalogApi) archiveOffer(ctx echo.Context) error {
	return api.setOfferStatus(ctx, api.svc.ArchiveOffer)
}

func (api *catalogApi) setOfferStatus(
	ctx echo.Context,
	op func(c context.Context, actor core.Actor, id int) (catalog.TrainingOffer, error),
) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	offer, err := op(ctx.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, offer)
}
