package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zkrsa/circuits/pipeline"
)

// VerifyRequest represents the request body for the /verify endpoint
type VerifyRequest struct {
	Proof string `json:"proof_hex"`
}

// VerifyResponse represents the response body for the /verify endpoint
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// HandleVerifyRequest handles the /verify endpoint
func HandleVerifyRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	proof, err := hexutil.Decode(req.Proof)
	if err != nil {
		http.Error(w, "Invalid proof hex", http.StatusBadRequest)
		return
	}

	valid, err := pipeline.Verify(params, verifyingKey, proof, shape)
	if err != nil {
		log.Printf("Error verifying proof: %v", err)
		http.Error(w, "Failed to verify proof", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VerifyResponse{Valid: valid})
}
