package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = "8081"
	defaultLatencyMs = "25"
	clientPrefix     = "/v1/client/"
)

type Client struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ImageURI    string `json:"image_uri,omitempty"`
	RedirectURI string `json:"redirect_uri"`
	Trusted     bool   `json:"trusted"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

var clientID = regexp.MustCompile(`^[0-9a-fA-F]{16}$`)

// testClients are the clients e2e and local runs rely on. "5e5e5e5e5e5e5e5e"
// always answers 503 so callers can exercise the circuit breaker.
var testClients = map[string]Client{
	"dcdb5ae7add825d2": {ID: "dcdb5ae7add825d2", Name: "123Done", RedirectURI: "http://localhost:8080/api/oauth", Trusted: true},
	"98e6508e88680e1a": {ID: "98e6508e88680e1a", Name: "321Done Untrusted", RedirectURI: "http://localhost:10139/api/oauth", Trusted: false},
	"3c49430b43dfba77": {ID: "3c49430b43dfba77", Name: "Android Components Reference Browser", RedirectURI: "https://accounts.firefox.com/oauth/success/3c49430b43dfba77", Trusted: true},
}

const unavailableClient = "5e5e5e5e5e5e5e5e"

var (
	latency = time.Duration(getEnvInt("LATENCY_MS", defaultLatencyMs)) * time.Millisecond
)

func main() {
	port := getEnv("PORT", defaultPort)
	if path := os.Getenv("SEED_FILE"); path != "" {
		if err := loadSeed(path); err != nil {
			log.Fatal(err)
		}
	}

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc(clientPrefix, handleClient)

	log.Printf("Mock client registry starting on port %s with %d clients", port, len(testClients))
	log.Printf("Simulated latency: %s", latency)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "client-registry"})
}

func handleClient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Code: "method_not_allowed", Message: "GET only"})
		return
	}
	time.Sleep(latency)

	id := strings.TrimPrefix(r.URL.Path, clientPrefix)
	switch {
	case !clientID.MatchString(id):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: "invalid_parameter", Field: "client_id", Message: "client id must be 16 hex characters"})
	case id == unavailableClient:
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Code: "unavailable", Message: "registry backend down"})
	default:
		c, ok := testClients[strings.ToLower(id)]
		if !ok {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Code: "not_found", Message: "unknown client"})
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func loadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var clients []Client
	if err := json.Unmarshal(data, &clients); err != nil {
		return err
	}
	for _, c := range clients {
		testClients[strings.ToLower(c.ID)] = c
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key, fallback string) int {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		return 0
	}
	return n
}
