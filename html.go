/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Seednode/impostor/impostor"
	"github.com/julienschmidt/httprouter"
)

func serveHomePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_, _ = io.WriteString(w, newPage(cfg, "impostor", "impostor v"+releaseVersion))
	}
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

// serveCategories lists the word categories rooms can be created with.
func serveCategories(cfg *Config, catalog *impostor.Catalog, errs chan<- error) httprouter.Handle {
	data, err := json.Marshal(struct {
		Categories   []string `json:"categories"`
		Default      string   `json:"default"`
		MinPlayers   int      `json:"minPlayers"`
		MaxPlayers   int      `json:"maxPlayers"`
		MaxImpostors int      `json:"maxImpostors"`
	}{
		Categories:   catalog.Names(),
		Default:      catalog.Resolve(impostor.DefaultCategory),
		MinPlayers:   impostor.MinPlayers,
		MaxPlayers:   cfg.maxPlayers,
		MaxImpostors: impostor.MaxImpostors,
	})

	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		if err != nil {
			http.Error(w, "unable to list categories", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, werr := w.Write(data)
		if werr != nil {
			errs <- werr

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /ws
Disallow: /rooms/`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
