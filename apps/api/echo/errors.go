package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/ufundi/core"
	"github.com/trezcool/ufundi/core/assignment"
	"github.com/trezcool/ufundi/core/catalog"
	"github.com/trezcool/ufundi/core/curriculum"
	"github.com/trezcool/ufundi/core/decision"
	"github.com/trezcool/ufundi/core/enrollment"
	"github.com/trezcool/ufundi/core/memoir"
	"github.com/trezcool/ufundi/core/workflow"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// notFoundErrs maps domain sentinels to a 404 response.
var notFoundErrs = map[error]bool{
	catalog.ErrInstitutionNotFound:   true,
	catalog.ErrSpecialtyNotFound:     true,
	catalog.ErrModuleNotFound:        true,
	catalog.ErrTeacherNotFound:       true,
	catalog.ErrTraineeNotFound:       true,
	catalog.ErrOfferNotFound:         true,
	curriculum.ErrProgrammeNotFound:  true,
	curriculum.ErrCourseNotFound:     true,
	enrollment.ErrNotFound:           true,
	memoir.ErrNotFound:               true,
	assignment.ErrNotFound:           true,
	decision.ErrNotFound:             true,
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *workflow.TransitionError:
			if origErr.Reason == workflow.ReasonMissingObservation {
				code = http.StatusBadRequest
			} else {
				code = http.StatusConflict
			}
			message = origErr.Error()
		default:
			cause := errors.Cause(err)
			switch {
			case cause == core.ErrNotAuthorized:
				code = http.StatusForbidden
				message = cause.Error()
			case notFoundErrs[cause]:
				code = http.StatusNotFound
				message = cause.Error()
			case cause == assignment.ErrAlreadyAssigned:
				code = http.StatusConflict
				message = cause.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var actor core.Actor
				if a, aErr := getContextActor(ctx); aErr == nil {
					actor = a
				}
				logger.Error(msg, errors.Wrap(err, msg), actor)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
