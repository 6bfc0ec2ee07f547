package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

var baseURL = "http://localhost:8080"

var sessionID string

func main() {
	if v := os.Getenv("FOLIO_URL"); v != "" {
		baseURL = v
	}
	// Wait for server to start
	time.Sleep(2 * time.Second)

	// 1. Health Check
	checkEndpoint("GET", "/health", nil, 200)

	// 2. Session
	sessionID = createSession()
	fmt.Printf("Session ID: %s\n", sessionID)

	// 3. Empty portfolio
	checkEndpoint("GET", "/portfolio", nil, 200)

	// 4. Add two lots of the same ticker, one unknown ticker and one rejected entry
	checkEndpoint("POST", "/holdings", map[string]string{"ticker": "aapl ", "shares": "10", "cost_basis": "150"}, 201)
	checkEndpoint("POST", "/holdings", map[string]string{"ticker": "AAPL", "shares": "2.5", "cost_basis": "180"}, 201)
	checkEndpoint("POST", "/holdings", map[string]string{"ticker": "NOSUCHTICKERX", "shares": "5", "cost_basis": "10"}, 201)
	checkEndpoint("POST", "/holdings", map[string]string{"ticker": "MSFT", "shares": "0", "cost_basis": "10"}, 200)

	// 5. Views
	checkEndpoint("GET", "/tickers", nil, 200)
	checkEndpoint("GET", "/portfolio", nil, 200)
	checkEndpoint("POST", "/scenario", map[string]interface{}{"uniform_move": -10, "overrides": map[string]int{"AAPL": 25}}, 200)
	checkEndpoint("POST", "/scenario", map[string]interface{}{"uniform_move": 75}, 400)
	checkEndpoint("GET", "/stress", nil, 200)
	checkEndpoint("GET", "/report?move=5", nil, 200)

	// 6. Remove every AAPL lot
	checkEndpoint("DELETE", "/holdings/AAPL", nil, 200)
	checkEndpoint("GET", "/holdings", nil, 200)

	fmt.Println("ALL TESTS PASSED")
}

func do(method, path string, body interface{}) (int, []byte) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, baseURL+path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody
}

func checkEndpoint(method, path string, body interface{}, expectedStatus int) {
	fmt.Printf("Testing %s %s...\n", method, path)
	status, respBody := do(method, path, body)
	if status != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, status, string(respBody))
	}
	fmt.Printf("Response: %s\n", string(respBody))
}

func createSession() string {
	fmt.Println("Creating session...")
	status, body := do("POST", "/sessions", nil)
	if status != 201 {
		log.Fatalf("Create session failed with status %d: %s", status, string(body))
	}
	var res map[string]string
	if err := json.Unmarshal(body, &res); err != nil {
		log.Fatalf("Decode session failed: %v", err)
	}
	return res["session_id"]
}
