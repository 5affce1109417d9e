package handlers

import (
	"errors"
	"net/http"

	"sterling_partners/internal/adapter/http/middleware"
	"sterling_partners/internal/domain/pricing"
	"sterling_partners/internal/domain/scheduler"
	"sterling_partners/internal/usecase"
	"sterling_partners/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errInvalidPricingPayload = pkg.NewDomainErrorSimple("INVALID_PRICING_INPUT", "Invalid pricing payload", http.StatusBadRequest)
	errInvalidBookingPayload = pkg.NewDomainErrorSimple("INVALID_BOOKING_INPUT", "Invalid booking payload", http.StatusBadRequest)

	errBookingUnavailable = errors.New("booking is not available")
)

// Paths used for Location headers. The routes package mounts handlers on the
// same paths under /v1.
const (
	PathQuotes          = "/v1/quotes"
	PathBookingSessions = "/v1/booking-sessions"
)

func mapQuoteError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, pricing.ErrUnknownEntityType):
		return pkg.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type", err, http.StatusBadRequest)
	case errors.Is(err, pricing.ErrUnknownInvoiceBand):
		return pkg.NewDomainError("INVALID_INVOICE_BAND", "Unknown invoice volume band", err, http.StatusBadRequest)
	case errors.Is(err, pricing.ErrUnknownAddOn):
		return pkg.NewDomainError("INVALID_ADD_ON", "Unknown add-on", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidQuoteID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func mapBookingError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidSessionID), errors.Is(err, usecase.ErrInvalidBookingID), errors.Is(err, usecase.ErrInvalidQuoteID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, scheduler.ErrInvalidPackage):
		return pkg.NewDomainErrorSimple("INVALID_PACKAGE", "Unknown package", http.StatusBadRequest)
	case errors.Is(err, scheduler.ErrInvalidDate):
		return pkg.NewDomainErrorSimple("INVALID_DATE", "Date is not one of the available business days", http.StatusBadRequest)
	case errors.Is(err, scheduler.ErrInvalidTimeSlot):
		return pkg.NewDomainErrorSimple("INVALID_TIME_SLOT", "Time is not one of the available slots", http.StatusBadRequest)
	case errors.Is(err, scheduler.ErrDateRequired):
		return pkg.NewDomainErrorSimple("DATE_REQUIRED", "Pick a date before choosing a time", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrBookingSessionNotFound), errors.Is(err, scheduler.ErrWizardClosed):
		return pkg.NewDomainErrorSimple("BOOKING_SESSION_NOT_FOUND", "Booking session not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrBookingNotFound):
		return pkg.NewDomainErrorSimple("BOOKING_NOT_FOUND", "Booking not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	case errors.Is(err, scheduler.ErrScheduleIncomplete):
		return pkg.NewDomainErrorSimple("SCHEDULE_INCOMPLETE", "Choose a date and a time first", http.StatusUnprocessableEntity)
	case errors.Is(err, scheduler.ErrContactIncomplete):
		return pkg.NewDomainErrorSimple("CONTACT_INCOMPLETE", "Name and email are required", http.StatusUnprocessableEntity)
	case errors.Is(err, scheduler.ErrNoPreviousStep), errors.Is(err, scheduler.ErrFinalStep):
		return pkg.NewDomainErrorSimple("INVALID_STEP_TRANSITION", "Step transition not allowed", http.StatusUnprocessableEntity)
	case errors.Is(err, scheduler.ErrSubmitUnavailable):
		return pkg.NewDomainErrorSimple("SUBMIT_UNAVAILABLE", "Submit is only available on the contact step", http.StatusUnprocessableEntity)
	case errors.Is(err, scheduler.ErrNotEditable):
		return pkg.NewDomainErrorSimple("SESSION_NOT_EDITABLE", "Go back to the contact step to edit", http.StatusUnprocessableEntity)
	case errors.Is(err, scheduler.ErrAlreadySubmitted):
		return pkg.NewDomainErrorSimple("BOOKING_ALREADY_SUBMITTED", "Booking was already submitted", http.StatusConflict)
	case errors.Is(err, errBookingUnavailable):
		return pkg.NewDomainErrorSimple("BOOKING_UNAVAILABLE", "Booking is not available", http.StatusServiceUnavailable)
	case errors.Is(err, scheduler.ErrConfirmationFailed):
		return pkg.NewDomainError("BOOKING_CONFIRMATION_FAILED", "The appointment could not be confirmed. Please try again.", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

// writeError renders appErr. Server side failures are logged with their cause
// since the body never carries it.
func writeError(c *gin.Context, appErr *pkg.AppError) {
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		middleware.LogWithCorrelationID(c.Request.Context()).Error("request failed",
			zap.String("code", appErr.Code),
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr.Err),
		)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
