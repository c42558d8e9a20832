// internal/matching/routes.go

package matching

import (
	"net/http"

	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authenticate func(http.Handler) http.Handler) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authenticate)

	// Recommendations
	api.HandleFunc("/recommendations", handler.GetRecommendations).Methods("GET")
	api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods("GET")

	// Matches
	api.HandleFunc("/matches", handler.GetMatches).Methods("GET")
	api.HandleFunc("/matches", handler.ProposeMatch).Methods("POST")
	api.HandleFunc("/matches/{userId}/accept", handler.AcceptMatch).Methods("POST")
	api.HandleFunc("/matches/{userId}/reject", handler.RejectMatch).Methods("POST")
}
