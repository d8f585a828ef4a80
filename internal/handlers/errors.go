package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

// respondWithError writes {"detail": userMsg}. A non-nil err is logged
// with the request id assigned by Logging.
func respondWithError(w http.ResponseWriter, r *http.Request, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("[%s] %s: %v", GetRequestID(r.Context()), logMsg, err)
	}

	respondJSON(w, status, map[string]string{"detail": userMsg})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// decodeJSON reads a JSON body into dst. An empty body is not an error when
// allowEmpty is set, so callers can fall back to query parameters.
func decodeJSON(r *http.Request, dst interface{}, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}
		return io.EOF
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
