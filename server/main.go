package main

import (
	"log"
	"net/http"
	"os"

	"github.com/zkrsa/circuits/server/handlers"
)

// corsMiddleware adds CORS headers to the response
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "http://localhost:3000")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func main() {
	if err := handlers.LoadArtifacts(); err != nil {
		log.Fatalf("Failed to load circuit artifacts: %v", err)
	}

	http.HandleFunc("/prove", corsMiddleware(handlers.HandleProveRequest))
	http.HandleFunc("/verify", corsMiddleware(handlers.HandleVerifyRequest))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
