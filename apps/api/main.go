package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/ufundi/apps/api/echo"
	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/assignment"
	"github.com/trezcool/ufundi/core/catalog"
	"github.com/trezcool/ufundi/core/curriculum"
	"github.com/trezcool/ufundi/core/decision"
	"github.com/trezcool/ufundi/core/enrollment"
	"github.com/trezcool/ufundi/core/memoir"
	"github.com/trezcool/ufundi/core/scope"
	emailsvc "github.com/trezcool/ufundi/services/email"
	logsvc "github.com/trezcool/ufundi/services/logger"
	"github.com/trezcool/ufundi/storage/database"
	sqlxrepos "github.com/trezcool/ufundi/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up repos
	catalogRepo := sqlxrepos.NewCatalogRepository(db)
	asgRepo := sqlxrepos.NewAssignmentRepository(db)
	currRepo := sqlxrepos.NewCurriculumRepository(db)
	enrRepo := sqlxrepos.NewEnrollmentRepository(db)
	memRepo := sqlxrepos.NewMemoirRepository(db)
	decRepo := sqlxrepos.NewDecisionRepository(db)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	resolver := scope.NewResolver(catalogRepo, asgRepo, currRepo, enrRepo, memRepo)
	catalogSvc := catalog.NewService(catalogRepo)
	enrSvc := enrollment.NewService(enrRepo, catalogRepo)
	currSvc := curriculum.NewService(currRepo, catalogRepo, asgRepo)
	memSvc := memoir.NewService(memRepo)
	asgSvc := assignment.NewService(asgRepo, catalogRepo, memRepo)
	decSvc := decision.NewService(decRepo, resolver, mailSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		&echoapi.Options{
			Conf:          conf,
			Logger:        logger,
			CatalogSvc:    catalogSvc,
			EnrollmentSvc: enrSvc,
			CurriculumSvc: currSvc,
			MemoirSvc:     memSvc,
			AssignmentSvc: asgSvc,
			DecisionSvc:   decSvc,
			Resolver:      resolver,
			Validate:      validate,
			Translator:    translator,
		},
	)

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
