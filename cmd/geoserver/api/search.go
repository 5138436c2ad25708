package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manzanit0/photon/pkg/geocode"
	"github.com/manzanit0/photon/pkg/photon"
)

type SearchController struct {
	searcher geocode.Searcher
}

func NewSearchController(s geocode.Searcher) *SearchController {
	return &SearchController{searcher: s}
}

// Forward handles GET /api.
func (s *SearchController) Forward(c *gin.Context) {
	query, filter, err := forwardFilterFromQuery(c.Request.URL.RawQuery)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	features, err := s.searcher.ForwardSearch(c.Request.Context(), query, filter)
	if err != nil {
		writeUpstreamError(c, "forward search", err)
		return
	}

	writeFeatures(c, features)
}

// Reverse handles GET /reverse.
func (s *SearchController) Reverse(c *gin.Context) {
	coords, filter, err := reverseFilterFromQuery(c.Request.URL.RawQuery)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	features, err := s.searcher.ReverseSearch(c.Request.Context(), coords, filter)
	if err != nil {
		writeUpstreamError(c, "reverse search", err)
		return
	}

	writeFeatures(c, features)
}

func writeFeatures(c *gin.Context, features []photon.Feature) {
	if c.Query("format") == "geojson" {
		c.JSON(http.StatusOK, photon.FeatureCollection(features))
		return
	}

	c.JSON(http.StatusOK, gin.H{"features": features})
}

func writeUpstreamError(c *gin.Context, op string, err error) {
	slog.ErrorContext(c.Request.Context(), op, "error", err.Error())
	_ = c.Error(err)

	var serr *photon.ServiceError
	var derr *photon.DecodeError
	switch {
	case errors.As(err, &serr):
		c.JSON(http.StatusBadGateway, gin.H{"error": serr.Message})
	case errors.As(err, &derr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "unexpected response from geocoder"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "geocoder timed out"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "geocoder unavailable"})
	}
}
