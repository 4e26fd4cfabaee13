package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/catalog"
	dummydb "github.com/trezcool/ufundi/storage/database/dummy"
)

var (
	ctx      = context.Background()
	validate = newValidate()

	trainee  = core.Actor{Role: core.RoleTrainee, SubjectID: 20}
	training = core.Actor{Role: core.RoleInstitutionTraining, SubjectID: 32}

	start = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
)

func newValidate() *validator.Validate {
	v := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(v, translator)
	return v
}

func setup(t *testing.T) (*dummydb.DB, *catalog.Service) {
	t.Helper()
	db := dummydb.NewDB()

	db.AddInstitution(catalog.Institution{ID: 32, Name: "CFPA Bab Ezzouar", Kind: catalog.InstitutionTraining})
	db.AddSpecialty(catalog.Specialty{ID: 1, Code: "INF", Designation: "Informatique"})
	db.AddSpecialty(catalog.Specialty{ID: 2, Code: "ELT", Designation: "Electrotechnique"})
	db.AddModule(catalog.Module{ID: 1, Code: "INF101", Designation: "Algorithmique", SpecialtyID: 1})
	db.AddModule(catalog.Module{ID: 2, Code: "INF102", Designation: "Reseaux", SpecialtyID: 1})
	db.AddModule(catalog.Module{ID: 3, Code: "ELT201", Designation: "Circuits", SpecialtyID: 2})

	return db, catalog.NewService(dummydb.NewCatalogRepository(db))
}

func Test_Service_QueryModules(t *testing.T) {
	_, svc := setup(t)

	mods, err := svc.QueryModules(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, mods, 3)

	mods, err = svc.QueryModules(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mods, 2)

	specialties, err := svc.QuerySpecialties(ctx)
	require.NoError(t, err)
	assert.Len(t, specialties, 2)
}

func Test_Service_CreateOffer(t *testing.T) {
	_, svc := setup(t)

	no := catalog.NewOffer{SpecialtyID: 1, Diploma: "CAP", Mode: "Residential", StartDate: start, EndDate: end}

	offer, err := svc.CreateOffer(ctx, training, no, validate)
	require.NoError(t, err)
	assert.Equal(t, training.SubjectID, offer.InstitutionID)
	assert.Equal(t, catalog.OfferDraft, offer.Status)
	assert.Equal(t, catalog.ModeResidential, offer.Mode) // cleaned + lowered

	t.Run("only training institutions open offers", func(t *testing.T) {
		_, err := svc.CreateOffer(ctx, trainee, no, validate)
		assert.ErrorIs(t, err, core.ErrNotAuthorized)
	})

	t.Run("unknown specialty", func(t *testing.T) {
		bad := no
		bad.SpecialtyID = 999
		_, err := svc.CreateOffer(ctx, training, bad, validate)
		assert.ErrorIs(t, err, catalog.ErrSpecialtyNotFound)
	})

	t.Run("unknown training mode", func(t *testing.T) {
		bad := no
		bad.Mode = "weekend"
		_, err := svc.CreateOffer(ctx, training, bad, validate)
		var vErrs validator.ValidationErrors
		assert.ErrorAs(t, err, &vErrs)
	})

	t.Run("end date must follow start date", func(t *testing.T) {
		bad := no
		bad.EndDate = start
		_, err := svc.CreateOffer(ctx, training, bad, validate)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "end_date", vErr.Fields[0].Field)
	})
}

func Test_Service_OfferLifecycle(t *testing.T) {
	_, svc := setup(t)

	no := catalog.NewOffer{SpecialtyID: 1, Diploma: "CAP", Mode: "residential", StartDate: start, EndDate: end}
	offer, err := svc.CreateOffer(ctx, training, no, validate)
	require.NoError(t, err)

	t.Run("draft cannot be archived", func(t *testing.T) {
		_, err := svc.ArchiveOffer(ctx, training, offer.ID)
		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("owner activates a draft", func(t *testing.T) {
		activated, err := svc.ActivateOffer(ctx, training, offer.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.OfferActive, activated.Status)
	})

	t.Run("active cannot be activated again", func(t *testing.T) {
		_, err := svc.ActivateOffer(ctx, training, offer.ID)
		var vErr *core.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("only the owner archives", func(t *testing.T) {
		other := core.Actor{Role: core.RoleInstitutionTraining, SubjectID: 33}
		_, err := svc.ArchiveOffer(ctx, other, offer.ID)
		assert.ErrorIs(t, err, core.ErrNotAuthorized)
	})

	t.Run("owner archives an active offer", func(t *testing.T) {
		archived, err := svc.ArchiveOffer(ctx, training, offer.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.OfferArchived, archived.Status)
	})

	t.Run("unknown offer", func(t *testing.T) {
		_, err := svc.ActivateOffer(ctx, training, 999)
		assert.ErrorIs(t, err, catalog.ErrOfferNotFound)
	})
}

func Test_Service_QueryOffers(t *testing.T) {
	db, svc := setup(t)

	db.AddOffer(catalog.TrainingOffer{ID: 50, InstitutionID: 32, SpecialtyID: 1, Status: catalog.OfferDraft})
	db.AddOffer(catalog.TrainingOffer{ID: 51, InstitutionID: 32, SpecialtyID: 1, Status: catalog.OfferActive})
	db.AddOffer(catalog.TrainingOffer{ID: 52, InstitutionID: 33, SpecialtyID: 2, Status: catalog.OfferActive})

	t.Run("a training institution sees its own offers in all states", func(t *testing.T) {
		offers, err := svc.QueryOffers(ctx, training, catalog.OfferFilter{})
		require.NoError(t, err)
		require.Len(t, offers, 2)
		assert.Equal(t, 51, offers[0].ID) // most recent first
		assert.Equal(t, 50, offers[1].ID)
	})

	t.Run("everyone else sees active offers only", func(t *testing.T) {
		offers, err := svc.QueryOffers(ctx, trainee, catalog.OfferFilter{})
		require.NoError(t, err)
		require.Len(t, offers, 2)
		assert.Equal(t, 52, offers[0].ID)
		assert.Equal(t, 51, offers[1].ID)
	})
}
