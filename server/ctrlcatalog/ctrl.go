// Package ctrlcatalog provides HTTP handlers for the music catalog
package ctrlcatalog

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/sentriz/gormstore"

	"github.com/ensemblefm/ensemble/catalog"
	"github.com/ensemblefm/ensemble/server/ctrlbase"
)

type CtxKey int

const (
	CtxSession CtxKey = iota
)

type Controller struct {
	*ctrlbase.Controller
	catalog *catalog.Service
	sessDB  *gormstore.Store
}

func New(b *ctrlbase.Controller, sessDB *gormstore.Store) *Controller {
	return &Controller{
		Controller: b,
		catalog:    catalog.NewService(b.DB),
		sessDB:     sessDB,
	}
}

type Response struct {
	// code is 200
	data interface{}
	// code is 303
	redirect string
	flashN   []string // normal
	flashW   []string // warning
	// code is >= 400
	code int
	err  string
}

// pageData is the envelope every JSON response travels in
type pageData struct {
	Flashes []interface{} `json:"flashes,omitempty"`
	Data    interface{}   `json:"data"`
}

type handlerCatalog func(r *http.Request) *Response

func (c *Controller) H(h handlerCatalog) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := h(r)
		session, ok := r.Context().Value(CtxSession).(*sessions.Session)
		if ok {
			sessAddFlashN(session, resp.flashN)
			sessAddFlashW(session, resp.flashW)
			if err := session.Save(r, w); err != nil {
				http.Error(w, fmt.Sprintf("error saving session: %v", err), 500)
				return
			}
		}
		if resp.redirect != "" {
			http.Redirect(w, r, c.Path(resp.redirect), http.StatusSeeOther)
			return
		}
		if resp.err != "" {
			http.Error(w, resp.err, resp.code)
			return
		}
		payload := pageData{Data: resp.data}
		if ok {
			payload.Flashes = session.Flashes()
			if err := session.Save(r, w); err != nil {
				http.Error(w, fmt.Sprintf("error saving session: %v", err), 500)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if resp.code != 0 {
			w.WriteHeader(resp.code)
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			http.Error(w, fmt.Sprintf("encoding response: %v", err), 500)
		}
	})
}

func (c *Controller) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := c.sessDB.Get(r, "ensemble")
		withSession := context.WithValue(r.Context(), CtxSession, session)
		next.ServeHTTP(w, r.WithContext(withSession))
	})
}

type Flash struct {
	Message string `json:"message"`
	Warning bool   `json:"warning"`
}

func init() {
	// flashes go through the session store's gob encoding
	gob.Register(Flash{})
}

func sessAddFlashN(session *sessions.Session, messages []string) {
	for _, message := range messages {
		session.AddFlash(Flash{Message: message})
	}
}

func sessAddFlashW(session *sessions.Session, messages []string) {
	for _, message := range messages {
		session.AddFlash(Flash{Message: message, Warning: true})
	}
}

func (c *Controller) ServeNotFound(r *http.Request) *Response {
	return &Response{code: 404, err: "not found"}
}
