package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
)

// HTTPTriggerRequest represents the JSON payload the Functions host wraps
// around an HTTP trigger invocation.
type HTTPTriggerRequest struct {
	Data struct {
		Req struct {
			URL             string              `json:"Url"`
			Method          string              `json:"Method"`
			Query           map[string]string   `json:"Query"`
			Headers         map[string][]string `json:"Headers"`
			Params          map[string]string   `json:"Params"`
			Body            string              `json:"Body"`
			IsBase64Encoded bool                `json:"isBase64Encoded"`
		} `json:"req"`
	} `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// HTTPTriggerResponse represents the JSON response the host expects back.
type HTTPTriggerResponse struct {
	Outputs struct {
		Res struct {
			StatusCode int               `json:"statusCode"`
			Headers    map[string]string `json:"headers"`
			Body       string            `json:"body"`
		} `json:"res"`
	} `json:"Outputs"`
	Logs        []string `json:"Logs,omitempty"`
	ReturnValue any      `json:"ReturnValue,omitempty"`
}

// HandleHttpTrigger adapts the Functions host JSON envelope to a standard
// HTTP request/response against the wrapped handler (usually the ServeMux).
func (d *Dependencies) HandleHttpTrigger(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var invokeReq HTTPTriggerRequest
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			slog.Error("failed to read HTTP trigger body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		if err := json.Unmarshal(bodyBytes, &invokeReq); err != nil {
			slog.Error("failed to unmarshal HTTP trigger request", "error", err)
			http.Error(w, "Failed to unmarshal request", http.StatusBadRequest)
			return
		}

		reqData := invokeReq.Data.Req
		slog.Info("processing wrapped HTTP request", "method", reqData.Method, "url", reqData.URL)

		// The body may arrive base64-encoded; some hosts send base64
		// without setting the flag, so try decoding either way.
		var bodyReader io.Reader
		if reqData.Body != "" {
			payload := []byte(reqData.Body)
			if decoded, err := base64.StdEncoding.DecodeString(reqData.Body); err == nil {
				payload = decoded
			}
			bodyReader = bytes.NewReader(payload)
		} else {
			bodyReader = http.NoBody
		}

		// The URL in the payload is absolute; http.NewRequest accepts that.
		newReq, err := http.NewRequest(reqData.Method, reqData.URL, bodyReader)
		if err != nil {
			slog.Error("failed to create internal request", "error", err)
			http.Error(w, "Failed to create internal request", http.StatusInternalServerError)
			return
		}

		for k, v := range reqData.Headers {
			for _, val := range v {
				newReq.Header.Add(k, val)
			}
		}

		// Capture the inner handler's response and wrap it back up.
		recorder := httptest.NewRecorder()
		next.ServeHTTP(recorder, newReq)

		respResult := recorder.Result()
		respBodyBytes, _ := io.ReadAll(respResult.Body)
		respResult.Body.Close()

		respHeaders := make(map[string]string)
		for k, v := range respResult.Header {
			respHeaders[k] = v[0] // Simplified header handling
		}

		jsonResp := HTTPTriggerResponse{}
		jsonResp.Outputs.Res.StatusCode = respResult.StatusCode
		jsonResp.Outputs.Res.Headers = respHeaders
		jsonResp.Outputs.Res.Body = string(respBodyBytes)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(jsonResp); err != nil {
			slog.Error("failed to encode HTTP trigger response", "error", err)
		}
	}
}
