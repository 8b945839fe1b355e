// Catalog HTTP handler: GET /services returns the static service catalog the
// marketing site renders its pricing cards from.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/serenemind/go-booking-backend/internal/catalog"
)

// ListServicesResponse wraps the catalog entries.
type ListServicesResponse struct {
	Services []catalog.Service `json:"services"`
}

// ListServices godoc
// @ID          listServices
// @Summary     List bookable services
// @Description Returns the static catalog of services with titles, durations, and prices.
// @Tags        Catalog
// @Produce     json
//
// @Success     200  {object}  handlers.ListServicesResponse
// @Router      /services [get]
func (h *Handlers) ListServices(c *gin.Context) {
	ok(c, http.StatusOK, ListServicesResponse{Services: catalog.All()})
}
