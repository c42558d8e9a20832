// internal/chat/routes.go

package chat

import (
	"net/http"

	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
	api := router.PathPrefix("/api/v1/chat").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/messages", handler.SendMessage).Methods("POST")
	api.HandleFunc("/conversations", handler.GetConversations).Methods("GET")
	api.HandleFunc("/{userId:[0-9]+}/messages", handler.GetMessages).Methods("GET")
}
