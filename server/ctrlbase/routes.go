package ctrlbase

import (
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func AddRoutes(c *Controller, r *mux.Router, logHTTP bool) {
	if logHTTP {
		r.Use(c.WithLogging)
	}
	r.Use(c.WithCORS)
	r.Use(handlers.RecoveryHandler(handlers.PrintRecoveryStack(true)))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		musicians := c.Path("/musicians")
		http.Redirect(w, r, musicians, http.StatusSeeOther)
	})
	r.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})
}
