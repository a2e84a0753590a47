// Command authentication is a development token service. It signs access and
// refresh tokens for an existing user id with the hiring service's secret,
// skipping the password check.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strconv"

	"github.com/gartstein/hiring/internal/hiring/auth"
	"github.com/gartstein/hiring/internal/hiring/config"
	"github.com/google/uuid"
)

const defaultPort = 8081

// TokenResponse represents the response structure
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// tokenHandler signs a token pair for the user_id query parameter.
func tokenHandler(issuer *auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
		if err != nil {
			http.Error(w, "user_id must be a uuid", http.StatusBadRequest)
			return
		}

		pair, err := issuer.Issue(userID)
		if err != nil {
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(TokenResponse{Access: pair.Access, Refresh: pair.Refresh}); err != nil {
			http.Error(w, "Failed to encode token", http.StatusInternalServerError)
		}
	}
}

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	port := flag.Int("port", defaultPort, "listen port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	http.HandleFunc("/token", tokenHandler(issuer))

	log.Printf("Authentication service running on port %d", *port)
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(*port), nil))
}
