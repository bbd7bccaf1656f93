package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zkrsa/circuits/circuits"
	"github.com/zkrsa/circuits/pipeline"
)

// Global variables to store the serialized artifacts for the configured shape
var (
	shape        circuits.Shape
	params       []byte
	provingKey   []byte
	verifyingKey []byte
)

// ProveRequest represents the request body for the /prove endpoint. The
// modulus and signature are 0x-prefixed hex in little-endian byte order; the
// message is plain text.
type ProveRequest struct {
	ModulusHex   string `json:"modulus_hex"`
	Message      string `json:"message"`
	SignatureHex string `json:"signature_hex"`
}

// ProveResponse represents the response body for the /prove endpoint
type ProveResponse struct {
	Proof string `json:"proof_hex"`
}

// LoadArtifacts loads the setup artifacts for one circuit shape from the
// directory named by ZKRSA_ARTIFACTS (default ../artifacts). The shape is
// selected by ZKRSA_MSG_LEN (default 64) and must match the one the
// artifacts were produced for.
func LoadArtifacts() error {
	msgLen := uint(64)
	if v := os.Getenv("ZKRSA_MSG_LEN"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid ZKRSA_MSG_LEN: %w", err)
		}
		msgLen = uint(parsed)
	}

	found := false
	for _, s := range circuits.Shapes() {
		if s.MaxMsgLen == msgLen {
			shape = s
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no stock shape supports message length %d", msgLen)
	}

	dir := os.Getenv("ZKRSA_ARTIFACTS")
	if dir == "" {
		dir = "../artifacts"
	}

	var err error
	if params, err = os.ReadFile(filepath.Join(dir, "params.bin")); err != nil {
		return fmt.Errorf("failed to read parameters file: %w", err)
	}
	if provingKey, err = os.ReadFile(filepath.Join(dir, "pk.bin")); err != nil {
		return fmt.Errorf("failed to read proving key file: %w", err)
	}
	if verifyingKey, err = os.ReadFile(filepath.Join(dir, "vk.bin")); err != nil {
		return fmt.Errorf("failed to read verifying key file: %w", err)
	}

	log.Printf("Successfully loaded artifacts for %s", shape)
	return nil
}

// HandleProveRequest handles the /prove endpoint
func HandleProveRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ProveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	modulusLE, err := hexutil.Decode(req.ModulusHex)
	if err != nil {
		http.Error(w, "Invalid modulus hex", http.StatusBadRequest)
		return
	}
	signatureLE, err := hexutil.Decode(req.SignatureHex)
	if err != nil {
		http.Error(w, "Invalid signature hex", http.StatusBadRequest)
		return
	}

	proof, err := pipeline.Prove(params, provingKey, shape, modulusLE, []byte(req.Message), signatureLE)
	if err != nil {
		log.Printf("Error generating proof: %v", err)
		http.Error(w, "Failed to generate proof", http.StatusInternalServerError)
		return
	}

	response := ProveResponse{
		Proof: hexutil.Encode(proof),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
