package handlers

import (
	"context"
	"net/http"

	request "sterling_partners/internal/adapter/http/dto/request"
	response "sterling_partners/internal/adapter/http/dto/response"
	"sterling_partners/internal/domain/entities"
	"sterling_partners/internal/usecase"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the three-step appointment wizard.
type BookingHandler struct {
	usecase usecase.IBookingUseCase
}

func NewBookingHandler(uc usecase.IBookingUseCase) *BookingHandler {
	return &BookingHandler{usecase: uc}
}

// Availability godoc
// @Summary      Bookable dates and time slots
// @Tags         booking
// @Produce      json
// @Success      200  {object}  response.AvailabilityResponse
// @Router       /booking/availability [get]
func (h *BookingHandler) Availability(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromAvailability(h.usecase.Availability(c.Request.Context())))
}

// OpenSession godoc
// @Summary      Open the appointment wizard
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        session  body      request.OpenBookingRequest  false  "Preselected package or quote"
// @Success      201      {object}  response.BookingSessionResponse
// @Failure      400      {object}  pkg.HTTPError
// @Router       /booking-sessions [post]
func (h *BookingHandler) OpenSession(c *gin.Context) {
	var payload request.OpenBookingRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			writeError(c, errInvalidBookingPayload)
			return
		}
	}

	session, err := h.usecase.Open(c.Request.Context(), payload.ToParams())
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}

	c.Header("Location", PathBookingSessions+"/"+session.ID)
	c.JSON(http.StatusCreated, response.FromBookingSession(session))
}

// GetSession godoc
// @Summary      Current wizard state
// @Tags         booking
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.BookingSessionResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /booking-sessions/{id} [get]
func (h *BookingHandler) GetSession(c *gin.Context) {
	h.respondWithSession(c, h.usecase.Get)
}

// UpdateSession godoc
// @Summary      Change package, date, time or contact details
// @Description  All fields are validated before any is applied; a rejected patch changes nothing
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        id      path      string                        true  "Session ID"
// @Param        update  body      request.UpdateBookingRequest  true  "Fields to change"
// @Success      200     {object}  response.BookingSessionResponse
// @Failure      400     {object}  pkg.HTTPError
// @Failure      409     {object}  pkg.HTTPError
// @Router       /booking-sessions/{id} [patch]
func (h *BookingHandler) UpdateSession(c *gin.Context) {
	var payload request.UpdateBookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil || payload.IsEmpty() {
		writeError(c, errInvalidBookingPayload)
		return
	}

	session, err := h.usecase.Update(c.Request.Context(), c.Param("id"), payload.ToUpdate())
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromBookingSession(session))
}

// Next godoc
// @Summary      Advance to the next step
// @Tags         booking
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.BookingSessionResponse
// @Failure      422  {object}  pkg.HTTPError
// @Router       /booking-sessions/{id}/next [post]
func (h *BookingHandler) Next(c *gin.Context) {
	h.respondWithSession(c, h.usecase.Next)
}

// Back godoc
// @Summary      Return to the previous step
// @Tags         booking
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.BookingSessionResponse
// @Failure      422  {object}  pkg.HTTPError
// @Router       /booking-sessions/{id}/back [post]
func (h *BookingHandler) Back(c *gin.Context) {
	h.respondWithSession(c, h.usecase.Back)
}

// Submit godoc
// @Summary      Confirm the appointment
// @Description  On success the session shows the booking reference and resets shortly after
// @Tags         booking
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  response.BookingSessionResponse
// @Failure      409  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Failure      502  {object}  pkg.HTTPError
// @Router       /booking-sessions/{id}/submit [post]
func (h *BookingHandler) Submit(c *gin.Context) {
	h.respondWithSession(c, h.usecase.Submit)
}

// CloseSession godoc
// @Summary      Dismiss the wizard
// @Tags         booking
// @Param        id   path  string  true  "Session ID"
// @Success      204
// @Failure      404  {object}  pkg.HTTPError
// @Router       /booking-sessions/{id} [delete]
func (h *BookingHandler) CloseSession(c *gin.Context) {
	if err := h.usecase.Close(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, mapBookingError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// GetBooking godoc
// @Summary      Get a confirmed booking
// @Tags         booking
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.BookingResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.usecase.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromBooking(booking))
}

func (h *BookingHandler) respondWithSession(
	c *gin.Context,
	action func(ctx context.Context, sessionID string) (entities.BookingSession, error),
) {
	session, err := action(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromBookingSession(session))
}
