package handlers

import (
	"net/http"

	request "sterling_partners/internal/adapter/http/dto/request"
	response "sterling_partners/internal/adapter/http/dto/response"
	"sterling_partners/internal/domain/entities"
	"sterling_partners/internal/usecase"

	"github.com/gin-gonic/gin"
)

// QuoteHandler serves the pricing calculator and stored quotes.
type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
	opener  usecase.BookingOpener
}

// NewQuoteHandler wires the calculator. opener lets a quote jump straight into
// the appointment wizard; it may be nil when booking is not mounted.
func NewQuoteHandler(uc usecase.IQuoteUseCase, opener usecase.BookingOpener) *QuoteHandler {
	return &QuoteHandler{usecase: uc, opener: opener}
}

// GetOptions godoc
// @Summary      Pricing options
// @Description  Entity types, invoice bands and add-ons the calculator offers
// @Tags         pricing
// @Produce      json
// @Success      200  {object}  pricing.Catalogue
// @Router       /pricing/options [get]
func (h *QuoteHandler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.Catalogue())
}

// Estimate godoc
// @Summary      Estimate the monthly fee
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        selection  body      request.PricingSelectionRequest  true  "Calculator selection"
// @Success      200        {object}  response.PricingResultResponse
// @Failure      400        {object}  pkg.HTTPError
// @Router       /pricing/estimate [post]
func (h *QuoteHandler) Estimate(c *gin.Context) {
	var payload request.PricingSelectionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPricingPayload)
		return
	}

	result, err := h.usecase.Estimate(c.Request.Context(), payload.ToSelection())
	if err != nil {
		writeError(c, mapQuoteError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromPricingResult(result))
}

// CreateQuote godoc
// @Summary      Save a quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        selection  body      request.PricingSelectionRequest  true  "Calculator selection"
// @Success      201        {object}  response.QuoteResponse
// @Failure      400        {object}  pkg.HTTPError
// @Router       /quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var payload request.PricingSelectionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidPricingPayload)
		return
	}

	quote, err := h.usecase.CreateQuote(c.Request.Context(), payload.ToSelection())
	if err != nil {
		writeError(c, mapQuoteError(err))
		return
	}

	c.Header("Location", PathQuotes+"/"+quote.ID)
	c.JSON(http.StatusCreated, response.FromQuote(quote))
}

// GetQuote godoc
// @Summary      Get a quote
// @Tags         quotes
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.QuoteResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapQuoteError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// OpenBookingFromQuote godoc
// @Summary      Plan a meeting for a quote
// @Description  Opens the appointment wizard with the quote's recommended package preselected
// @Tags         quotes
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      201  {object}  response.BookingSessionResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /quotes/{id}/booking-sessions [post]
func (h *QuoteHandler) OpenBookingFromQuote(c *gin.Context) {
	if h.opener == nil {
		writeError(c, mapBookingError(errBookingUnavailable))
		return
	}

	quote, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapQuoteError(err))
		return
	}

	session, err := h.opener.Open(c.Request.Context(), usecase.OpenBookingParams{
		Package: entities.PackageForPlan(quote.Result.RecommendedPlan),
		QuoteID: quote.ID,
	})
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}

	c.Header("Location", PathBookingSessions+"/"+session.ID)
	c.JSON(http.StatusCreated, response.FromBookingSession(session))
}
