package qualityplan_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"qualitymap-backend/internal/bootstrap"
	"qualitymap-backend/internal/shared/config"
)

const srsFixture = "The system shall allow users to login with a password. " +
	"The system shall encrypt all stored data at rest. " +
	"The system shall allow administrators to login remotely."

func writeTestModel(t *testing.T) string {
	t.Helper()
	artifact := map[string]any{
		"model_name": "test-logreg",
		"accuracy":   0.9,
		"classes":    []string{"Functionality", "Security"},
		"vocabulary": map[string]int{"login": 0, "encrypt": 1},
		"idf":        []float64{1.0, 1.0},
		"coef":       [][]float64{{2.0, -1.0}, {-1.0, 2.0}},
		"intercept":  []float64{0.0, 0.0},
	}
	raw, err := json.Marshal(artifact)
	if err != nil {
		t.Fatalf("marshal model: %v", err)
	}
	path := filepath.Join(t.TempDir(), "classifier.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return path
}

func buildTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		ObjectStoreType: "local",
		ModelPath:       writeTestModel(t),
		Env:             "dev",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func postFile(t *testing.T, router http.Handler, url, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// analyzeSRS uploads the SRS fixture and runs an analysis, returning the
// analysis ID.
func analyzeSRS(t *testing.T, app *bootstrap.App) string {
	t.Helper()

	resp := postFile(t, app.Router, "/api/v1/documents", "srs.txt", []byte(srsFixture))
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload srs: status %d: %s", resp.Code, resp.Body.String())
	}
	var doc struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}

	payload, _ := json.Marshal(map[string]string{"documentId": doc.DocumentID})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	analyzeResp := httptest.NewRecorder()
	app.Router.ServeHTTP(analyzeResp, req)
	if analyzeResp.Code != http.StatusOK {
		t.Fatalf("analyze srs: status %d: %s", analyzeResp.Code, analyzeResp.Body.String())
	}

	var analysis struct {
		AnalysisID string `json:"analysisId"`
	}
	if err := json.NewDecoder(analyzeResp.Body).Decode(&analysis); err != nil {
		t.Fatalf("decode analysis response: %v", err)
	}
	if analysis.AnalysisID == "" {
		t.Fatal("expected analysisId, got empty")
	}
	return analysis.AnalysisID
}

func TestQualityPlanUploadAndGet(t *testing.T) {
	app := buildTestApp(t)
	analysisID := analyzeSRS(t, app)

	plan := "Our quality plan includes unit test coverage for every feature " +
		"and a penetration test before each release."
	resp := postFile(t, app.Router, "/api/v1/quality-plans/"+analysisID, "plan.txt", []byte(plan))
	if resp.Code != http.StatusOK {
		t.Fatalf("analyze plan: status %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		PlanID          string  `json:"planId"`
		AnalysisID      string  `json:"analysisId"`
		OverallCoverage float64 `json:"overallCoverage"`
		PlanStrength    string  `json:"planStrength"`
		CategoryCoverage map[string]struct {
			Covered bool `json:"covered"`
		} `json:"categoryCoverage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode plan response: %v", err)
	}
	if result.PlanID == "" || result.AnalysisID != analysisID {
		t.Fatalf("plan identity wrong: %+v", result)
	}
	if !result.CategoryCoverage["Functionality"].Covered || !result.CategoryCoverage["Security"].Covered {
		t.Fatalf("expected Functionality and Security covered: %+v", result.CategoryCoverage)
	}
	if result.OverallCoverage != 100 {
		t.Fatalf("overall coverage = %v, want 100", result.OverallCoverage)
	}
	if result.PlanStrength != "Strong" {
		t.Fatalf("plan strength = %s, want Strong", result.PlanStrength)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/quality-plans/"+analysisID, nil)
	getResp := httptest.NewRecorder()
	app.Router.ServeHTTP(getResp, getReq)
	if getResp.Code != http.StatusOK {
		t.Fatalf("get plan: status %d", getResp.Code)
	}
	var fetched struct {
		PlanID string `json:"planId"`
	}
	if err := json.NewDecoder(getResp.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if fetched.PlanID != result.PlanID {
		t.Fatalf("fetched planId %s, want %s", fetched.PlanID, result.PlanID)
	}
}

func TestQualityPlanUnknownAnalysis(t *testing.T) {
	app := buildTestApp(t)

	resp := postFile(t, app.Router, "/api/v1/quality-plans/missing-analysis", "plan.txt", []byte("test plan"))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if envelope.Error.Code != "not_found" {
		t.Fatalf("expected code not_found, got %s", envelope.Error.Code)
	}
}

func TestQualityPlanGetBeforeUpload(t *testing.T) {
	app := buildTestApp(t)
	analysisID := analyzeSRS(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quality-plans/"+analysisID, nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestQualityPlanCorruptDocumentReturnsExtractionFailed(t *testing.T) {
	app := buildTestApp(t)
	analysisID := analyzeSRS(t, app)

	resp := postFile(t, app.Router, "/api/v1/quality-plans/"+analysisID, "plan.pdf", []byte("%PDF-1.4 not a real pdf"))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if envelope.Error.Code != "extraction_failed" {
		t.Fatalf("expected code extraction_failed, got %s", envelope.Error.Code)
	}
}

func TestQualityPlanFlagsSRSLookalike(t *testing.T) {
	app := buildTestApp(t)
	analysisID := analyzeSRS(t, app)

	// Upload requirement-style text as the plan; it still gets analyzed but
	// carries a warning.
	lookalike := strings.Repeat("The system shall encrypt the login session. ", 2) +
		"Each functional requirement covers a use case, a user story, and acceptance criteria " +
		"from the software requirements specification."
	resp := postFile(t, app.Router, "/api/v1/quality-plans/"+analysisID, "not-a-plan.txt", []byte(lookalike))
	if resp.Code != http.StatusOK {
		t.Fatalf("analyze lookalike: status %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		SRSDetection *struct {
			IsLikelySRS bool   `json:"isLikelySrs"`
			Warning     string `json:"warning"`
		} `json:"srsDetection"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode plan response: %v", err)
	}
	if result.SRSDetection == nil || !result.SRSDetection.IsLikelySRS {
		t.Fatalf("expected srsDetection warning, got %+v", result.SRSDetection)
	}
	if !strings.Contains(result.SRSDetection.Warning, "appears to be an SRS") {
		t.Fatalf("warning text missing: %q", result.SRSDetection.Warning)
	}
}
