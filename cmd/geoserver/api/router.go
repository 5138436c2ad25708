package api

import (
	"github.com/gin-gonic/gin"

	"github.com/manzanit0/photon/pkg/geocode"
	"github.com/manzanit0/photon/pkg/middleware"
	"github.com/manzanit0/photon/pkg/places"
)

// NewRouter wires the routes. The places routes are only registered when a
// repository is given.
func NewRouter(s geocode.Searcher, repo places.Repository, debug bool) *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(debug))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	search := NewSearchController(s)
	r.GET("/api", search.Forward)
	r.GET("/reverse", search.Reverse)

	if repo != nil {
		p := NewPlacesController(s, repo)
		r.GET("/places", p.List)
		r.GET("/places/:name", p.Get)
		r.PUT("/places/:name", p.Put)
		r.DELETE("/places/:name", p.Delete)
	}

	return r
}
