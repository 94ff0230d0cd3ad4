package api

import (
	"errors"
	"net/http"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/payment"
	"github.com/tarun8668/fit-pal-gemini-ai/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type errorMapping struct {
	target error
	code   int
}

// order matters: the first match wins
var serviceErrorCodes = []errorMapping{
	{service.ErrStoreUnavailable, http.StatusServiceUnavailable},
	{payment.ErrVerifierNotConfig, http.StatusServiceUnavailable},

	{service.ErrDuplicateCompletion, http.StatusConflict},
	{service.ErrInvalidStateTransition, http.StatusConflict},
	{service.ErrRenewalConflict, http.StatusConflict},
	{service.ErrOrderAlreadyPaid, http.StatusConflict},
	{service.ErrUserAlreadyExists, http.StatusConflict},

	{service.ErrCompletionNotFound, http.StatusNotFound},
	{service.ErrSplitNotFound, http.StatusNotFound},
	{service.ErrDietPlanNotFound, http.StatusNotFound},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrUnknownOrder, http.StatusNotFound},
	{service.ErrEntryNotFound, http.StatusNotFound},
	{service.ErrProfileNotFound, http.StatusNotFound},

	{service.ErrNotScheduledToday, http.StatusUnprocessableEntity},
	{service.ErrWorkoutDayRequired, http.StatusBadRequest},
	{service.ErrWorkoutNameRequired, http.StatusBadRequest},
	{service.ErrInvalidSplit, http.StatusBadRequest},
	{service.ErrInvalidRegistration, http.StatusBadRequest},
	{service.ErrUnknownPlan, http.StatusBadRequest},
	{service.ErrPaymentAmount, http.StatusBadRequest},
	{service.ErrOrderMismatch, http.StatusBadRequest},
	{service.ErrUnverifiedPayment, http.StatusBadRequest},
	{payment.ErrMissingFields, http.StatusBadRequest},
	{service.ErrInvalidEntry, http.StatusBadRequest},
	{service.ErrFutureEntry, http.StatusBadRequest},
	{service.ErrInvalidProfile, http.StatusBadRequest},
	{domain.ErrInvalidDate, http.StatusBadRequest},

	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{payment.ErrInvalidSignature, http.StatusUnauthorized},

	{service.ErrMembershipRequired, http.StatusPaymentRequired},
	{service.ErrChatLimitReached, http.StatusTooManyRequests},
}

// statusForError maps a service error to its HTTP status. Unknown errors are 500.
func statusForError(err error) int {
	for _, m := range serviceErrorCodes {
		if errors.Is(err, m.target) {
			return m.code
		}
	}
	return http.StatusInternalServerError
}

// respondServiceError aborts with the status and message of a service error.
// Internal details of store failures and unknown errors are not exposed.
func respondServiceError(c *gin.Context, err error) {
	code := statusForError(err)
	switch code {
	case http.StatusServiceUnavailable:
		abortWithError(c, code, "Service temporarily unavailable, please retry.")
	case http.StatusInternalServerError:
		log.WithError(err).Errorf("unhandled error on %s %s", c.Request.Method, c.FullPath())
		abortWithError(c, code, "An unexpected error occurred.")
	default:
		abortWithError(c, code, rootMessage(err))
	}
}

// rootMessage returns the message of the sentinel inside err, without the
// operation prefixes added while wrapping.
func rootMessage(err error) string {
	for _, m := range serviceErrorCodes {
		if errors.Is(err, m.target) {
			return m.target.Error()
		}
	}
	return err.Error()
}
