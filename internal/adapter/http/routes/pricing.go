package routes

import (
	"sterling_partners/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPricing = "/pricing"
	PathQuotes  = "/quotes"
)

func addPricingRoutes(rg *gin.RouterGroup, quoteHandler *handlers.QuoteHandler) {
	pricing := rg.Group(PathPricing)
	{
		pricing.GET("/options", quoteHandler.GetOptions)
		pricing.POST("/estimate", quoteHandler.Estimate)
	}

	quotes := rg.Group(PathQuotes)
	{
		quotes.POST("", quoteHandler.CreateQuote)
		quotes.GET("/:id", quoteHandler.GetQuote)
		// "Plan a meeting" from the result panel.
		quotes.POST("/:id/booking-sessions", quoteHandler.OpenBookingFromQuote)
	}
}
