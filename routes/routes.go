// Package routes wires the HTTP routes to their handlers.
package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mb256/web/handlers"
	"github.com/mb256/web/statuspage"
)

// Setup configures and returns a new router with all defined routes for the application.
func Setup(c *handlers.Container) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	router.NotFoundHandler = statuspage.Handler(http.StatusNotFound)
	router.MethodNotAllowedHandler = statuspage.Handler(http.StatusMethodNotAllowed)

	info := handlers.NewInfoHandlers(c)
	health := handlers.NewHealthHandlers(c)
	static := handlers.NewStaticHandlers(c)

	// The info page answers every method the same way, so its routes carry no
	// method filter.
	router.HandleFunc("/", info.Index).Name("Index")
	router.HandleFunc("/info", info.Index).Name("Info")

	router.HandleFunc("/healthz", health.Healthz).Methods("GET").Name("Healthz")
	router.HandleFunc("/api/info", health.Info).Methods("GET").Name("APIInfo")

	router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.HandlerFunc(static.ServeStatic)),
	).Name("Static")
	router.HandleFunc("/robots.txt", static.ServeStatic).Methods("GET").Name("Robots")

	if c.Config.Dev() {
		router.HandleFunc("/__livereload", c.Reload.Handler).Name("LiveReload")
	}

	return router
}
