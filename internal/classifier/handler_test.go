package classifier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newPredictRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	model, err := Load(writeArtifact(t, testArtifact()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	r := gin.New()
	NewHandler(model).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postPredict(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestPredictSingleText(t *testing.T) {
	router := newPredictRouter(t)

	resp := postPredict(t, router, `{"text":"The system shall encrypt the password database."}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Model      struct {
			Name string `json:"name"`
		} `json:"model"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Category != "Security" {
		t.Fatalf("category = %s, want Security", result.Category)
	}
	if result.Confidence <= 0 {
		t.Fatalf("confidence = %v, want > 0", result.Confidence)
	}
	if result.Model.Name != "test-logreg" {
		t.Fatalf("model name = %s", result.Model.Name)
	}
}

func TestPredictBatch(t *testing.T) {
	router := newPredictRouter(t)

	resp := postPredict(t, router, `{"texts":["encrypt password","respond fast"]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		Predictions []struct {
			Category string `json:"category"`
		} `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Predictions) != 2 {
		t.Fatalf("predictions = %d, want 2", len(result.Predictions))
	}
	if result.Predictions[0].Category != "Security" || result.Predictions[1].Category != "Efficiency" {
		t.Fatalf("categories wrong: %+v", result.Predictions)
	}
}

func TestPredictRejectsEmptyBody(t *testing.T) {
	router := newPredictRouter(t)

	for _, body := range []string{`{}`, `{"text":"  "}`, `not-json`} {
		resp := postPredict(t, router, body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, resp.Code)
		}
	}
}
