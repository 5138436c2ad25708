package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manzanit0/photon/pkg/geocode"
	"github.com/manzanit0/photon/pkg/photon"
	"github.com/manzanit0/photon/pkg/places"
)

type PlacesController struct {
	searcher geocode.Searcher
	places   places.Repository
}

func NewPlacesController(s geocode.Searcher, r places.Repository) *PlacesController {
	return &PlacesController{searcher: s, places: r}
}

// Put handles PUT /places/:name. The place is resolved with a forward search
// for ?q=, or for the name itself when q is missing, and the top hit is saved.
func (p *PlacesController) Put(c *gin.Context) {
	ctx := c.Request.Context()
	name := c.Param("name")

	query := c.Query("q")
	if query == "" {
		query = name
	}

	features, err := p.searcher.ForwardSearch(ctx, query, &photon.ForwardFilter{Limit: 1, Language: c.Query("lang")})
	if err != nil {
		writeUpstreamError(c, "resolve place", err)
		return
	}

	if len(features) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no place matches " + query})
		return
	}

	place := places.FromFeature(name, query, geocode.DisplayName(&features[0]), features[0])
	if err := p.places.SavePlace(ctx, place); err != nil {
		writeStorageError(c, "save place", err)
		return
	}

	saved, err := p.places.GetPlace(ctx, name)
	if err != nil {
		writeStorageError(c, "get place", err)
		return
	}

	if saved == nil {
		saved = place
	}

	c.JSON(http.StatusOK, saved)
}

func (p *PlacesController) Get(c *gin.Context) {
	place, err := p.places.GetPlace(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeStorageError(c, "get place", err)
		return
	}

	if place == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
		return
	}

	c.JSON(http.StatusOK, place)
}

func (p *PlacesController) List(c *gin.Context) {
	list, err := p.places.ListPlaces(c.Request.Context())
	if err != nil {
		writeStorageError(c, "list places", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"places": list})
}

func (p *PlacesController) Delete(c *gin.Context) {
	deleted, err := p.places.DeletePlace(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeStorageError(c, "delete place", err)
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func writeStorageError(c *gin.Context, op string, err error) {
	slog.ErrorContext(c.Request.Context(), op, "error", err.Error())
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
}
