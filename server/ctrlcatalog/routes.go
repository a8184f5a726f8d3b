package ctrlcatalog

import (
	"github.com/gorilla/mux"
)

func AddRoutes(c *Controller, r *mux.Router) {
	r.Use(c.WithSession)

	r.Handle("/musicians", c.H(c.ServeMusicians))
	r.Handle("/musicians/options", c.H(c.ServeMusicianFormOptions))
	r.Handle("/musicians/create_do", c.H(c.ServeMusicianCreateDo))
	r.Handle("/musicians/{id}", c.H(c.ServeMusician))
	r.Handle("/musicians/{id}/update_do", c.H(c.ServeMusicianUpdateDo))
	r.Handle("/musicians/{id}/delete_do", c.H(c.ServeMusicianDeleteDo))

	r.Handle("/songs", c.H(c.ServeSongs))
	r.Handle("/songs/options", c.H(c.ServeSongFormOptions))
	r.Handle("/songs/create_do", c.H(c.ServeSongCreateDo))
	r.Handle("/songs/{id}", c.H(c.ServeSong))
	r.Handle("/songs/{id}/update_do", c.H(c.ServeSongUpdateDo))
	r.Handle("/songs/{id}/delete_do", c.H(c.ServeSongDeleteDo))

	r.Handle("/instruments", c.H(c.ServeInstruments))
	r.Handle("/genres", c.H(c.ServeGenres))
	r.Handle("/albums", c.H(c.ServeAlbums))

	// middlewares should be run for not found handler
	// https://github.com/gorilla/mux/issues/416
	notFoundHandler := c.H(c.ServeNotFound)
	notFoundRoute := r.NewRoute().Handler(notFoundHandler)
	r.NotFoundHandler = notFoundRoute.GetHandler()
}
