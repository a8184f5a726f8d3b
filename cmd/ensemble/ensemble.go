//nolint:forbidigo
package main

import (
	"expvar"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/oklog/run"
	"github.com/peterbourgon/ff"
	"github.com/sentriz/gormstore"

	"github.com/ensemblefm/ensemble"
	"github.com/ensemblefm/ensemble/db"
	"github.com/ensemblefm/ensemble/server/ctrlbase"
	"github.com/ensemblefm/ensemble/server/ctrlcatalog"
)

func main() {
	set := flag.NewFlagSet(ensemble.Name, flag.ExitOnError)
	confListenAddr := set.String("listen-addr", "0.0.0.0:4848", "listen address (optional)")

	confTLSCert := set.String("tls-cert", "", "path to TLS certificate (optional)")
	confTLSKey := set.String("tls-key", "", "path to TLS private key (optional)")

	confDBPath := set.String("db-path", "ensemble.db", "path to database (optional)")

	confProxyPrefix := set.String("proxy-prefix", "", "url path prefix to use if behind proxy. eg '/ensemble' (optional)")
	confHTTPLog := set.Bool("http-log", true, "http request logging (optional)")

	confShowVersion := set.Bool("version", false, "show ensemble version")
	_ = set.String("config-path", "", "path to config (optional)")

	confExpvar := set.Bool("expvar", false, "enable the /debug/vars endpoint (optional)")

	if err := ff.Parse(set, os.Args[1:],
		ff.WithConfigFileFlag("config-path"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithEnvVarPrefix(ensemble.NameUpper),
	); err != nil {
		log.Fatalf("error parsing args: %v\n", err)
	}

	if *confShowVersion {
		fmt.Printf("v%s\n", ensemble.Version)
		os.Exit(0)
	}

	proxyPrefixExpr := regexp.MustCompile(`^\/*(.*?)\/*$`)
	*confProxyPrefix = proxyPrefixExpr.ReplaceAllString(*confProxyPrefix, `/$1`)

	dbc, err := db.New(*confDBPath)
	if err != nil {
		log.Fatalf("error opening database: %v\n", err)
	}
	defer dbc.Close()

	log.Printf("starting ensemble v%s\n", ensemble.Version)
	log.Printf("provided config\n")
	set.VisitAll(func(f *flag.Flag) {
		value := strings.ReplaceAll(f.Value.String(), "\n", "")
		log.Printf("    %-25s %s\n", f.Name, value)
	})

	sessKey, err := dbc.GetSetting("session_key")
	if err != nil {
		log.Panicf("error getting session key: %v\n", err)
	}
	if sessKey == "" {
		sessKey = string(securecookie.GenerateRandomKey(32))
		if err := dbc.SetSetting("session_key", sessKey); err != nil {
			log.Panicf("error setting session key: %v\n", err)
		}
	}
	sessDB := gormstore.New(dbc.DB, []byte(sessKey))
	sessDB.SessionOpts.HttpOnly = true
	sessDB.SessionOpts.SameSite = http.SameSiteLaxMode

	ctrlBase := &ctrlbase.Controller{
		DB:          dbc,
		ProxyPrefix: *confProxyPrefix,
	}
	ctrlCatalog := ctrlcatalog.New(ctrlBase, sessDB)

	mux := mux.NewRouter()
	ctrlbase.AddRoutes(ctrlBase, mux, *confHTTPLog)
	ctrlcatalog.AddRoutes(ctrlCatalog, mux.NewRoute().Subrouter())

	if *confExpvar {
		mux.Handle("/debug/vars", expvar.Handler())
		expvar.Publish("stats", expvar.Func(func() any {
			var stats struct{ Musicians, Instruments, Songs, Albums, Genres uint }
			dbc.Model(db.Musician{}).Count(&stats.Musicians)
			dbc.Model(db.Instrument{}).Count(&stats.Instruments)
			dbc.Model(db.Song{}).Count(&stats.Songs)
			dbc.Model(db.Album{}).Count(&stats.Albums)
			dbc.Model(db.Genre{}).Count(&stats.Genres)
			return stats
		}))
	}

	noCleanup := func(_ error) {}

	var g run.Group
	g.Add(func() error {
		log.Print("starting job 'http'\n")
		server := &http.Server{
			Addr:              *confListenAddr,
			Handler:           mux,
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      80 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		if *confTLSCert != "" && *confTLSKey != "" {
			return server.ListenAndServeTLS(*confTLSCert, *confTLSKey)
		}
		return server.ListenAndServe()
	}, noCleanup)

	g.Add(func() error {
		log.Printf("starting job 'session clean'\n")
		ticker := time.NewTicker(10 * time.Minute)
		for range ticker.C {
			sessDB.Cleanup()
		}
		return nil
	}, noCleanup)

	if err := g.Run(); err != nil {
		log.Panicf("error in job: %v", err)
	}
}
