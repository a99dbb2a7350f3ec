package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	r := SetupRouter(12)
	rec := doRequest(t, r, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
}

func TestPerformanceEndpoint(t *testing.T) {
	r := SetupRouter(12)
	rec := doRequest(t, r, http.MethodGet, "/performance", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, field := range []string{"time", "memory", "threads"} {
		if _, ok := body[field]; !ok {
			t.Errorf("response missing field %q: %+v", field, body)
		}
	}
}

func TestParseEndpointAcceptsBareArray(t *testing.T) {
	r := SetupRouter(12)
	payload := []map[string]interface{}{
		{"date": "2023-10-12 20:15:00", "amount": 250},
	}
	rec := doRequest(t, r, http.MethodPost, "/transactions:parse", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var out []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 1 || out[0]["ceiling"].(float64) != 300 {
		t.Errorf("unexpected parse result: %+v", out)
	}
}

func TestParseEndpointAcceptsWrappedExpenses(t *testing.T) {
	r := SetupRouter(12)
	payload := map[string]interface{}{
		"expenses": []map[string]interface{}{
			{"date": "2023-10-13 08:00:00", "amount": 375},
		},
	}
	rec := doRequest(t, r, http.MethodPost, "/transactions:parse", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
}

func TestParseEndpointRejectsNegativeAmount(t *testing.T) {
	r := SetupRouter(12)
	payload := []map[string]interface{}{{"date": "2023-10-12 20:15:00", "amount": -5}}
	rec := doRequest(t, r, http.MethodPost, "/transactions:parse", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := body["detail"]; !ok {
		t.Errorf("400 response missing detail field: %+v", body)
	}
}

func TestValidatorEndpoint(t *testing.T) {
	r := SetupRouter(12)
	payload := map[string]interface{}{
		"wage": 10000,
		"transactions": []map[string]interface{}{
			{"date": "2023-01-01 10:00:00", "amount": 250, "ceiling": 300, "remanent": 50},
		},
	}
	rec := doRequest(t, r, http.MethodPost, "/transactions:validator", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := body["valid"]; !ok {
		t.Errorf("response missing 'valid' key: %+v", body)
	}
}

func TestFilterEndpoint(t *testing.T) {
	r := SetupRouter(12)
	payload := map[string]interface{}{
		"k": []map[string]interface{}{
			{"start": "2023-01-01 00:00:00", "end": "2023-12-31 23:59:59"},
		},
		"transactions": []map[string]interface{}{
			{"date": "2023-01-01 10:00:00", "amount": 250},
		},
	}
	rec := doRequest(t, r, http.MethodPost, "/transactions:filter", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
}

func TestReturnsEndpointRejectsNegativeInflation(t *testing.T) {
	r := SetupRouter(12)
	payload := map[string]interface{}{
		"age": 29, "wage": 50000, "inflation": -0.1,
		"transactions": []map[string]interface{}{
			{"date": "2023-01-01 10:00:00", "amount": 250},
		},
	}
	rec := doRequest(t, r, http.MethodPost, "/returns:nps", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", rec.Code, rec.Body.String())
	}
}
