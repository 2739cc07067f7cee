package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ccisvision/vision/internal/auth"
	"github.com/ccisvision/vision/internal/domain"

	"github.com/google/uuid"
)

func newTestServer(store *stubStore) *httptest.Server {
	mux := http.NewServeMux()
	NewHTTPHandler(NewService(store), 0).Register(mux)
	return httptest.NewServer(auth.Middleware(mux))
}

func multipartUpload(t *testing.T, url, entityType, fileName string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("failed to build form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.WriteField("entity_type", entityType); err != nil {
		t.Fatalf("failed to write entity type: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close form: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url+"/api/excel/upload", &body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-User-Id", "tester")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload request failed: %v", err)
	}
	return resp
}

func TestUploadValidateProcessFlow(t *testing.T) {
	store := newStubStore()
	server := newTestServer(store)
	defer server.Close()

	csv := []byte("raison_sociale,ice\nAtlas Trading,1234\nRif Export,5678\n")
	resp := multipartUpload(t, server.URL, "company", "companies.csv", csv)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.StatusCode)
	}
	var upload UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		t.Fatalf("failed to decode upload result: %v", err)
	}
	if upload.TotalRows != 2 || upload.DataType != domain.EntityTypeCompany {
		t.Fatalf("unexpected upload result: %+v", upload)
	}
	if store.jobs[upload.ImportID].UploadedBy != "tester" {
		t.Fatalf("auth identity not recorded: %+v", store.jobs[upload.ImportID])
	}

	validateResp, err := http.Post(fmt.Sprintf("%s/api/excel/%s/validate", server.URL, upload.ImportID), "", nil)
	if err != nil {
		t.Fatalf("validate request failed: %v", err)
	}
	defer validateResp.Body.Close()
	if validateResp.StatusCode != http.StatusOK {
		t.Fatalf("validate: expected 200, got %d", validateResp.StatusCode)
	}
	var report ValidationReport
	if err := json.NewDecoder(validateResp.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode validation report: %v", err)
	}
	if report.Total != 2 || report.Invalid != 0 {
		t.Fatalf("unexpected validation report: %+v", report)
	}

	processResp, err := http.Post(fmt.Sprintf("%s/api/excel/%s/process", server.URL, upload.ImportID), "", nil)
	if err != nil {
		t.Fatalf("process request failed: %v", err)
	}
	defer processResp.Body.Close()
	if processResp.StatusCode != http.StatusOK {
		t.Fatalf("process: expected 200, got %d", processResp.StatusCode)
	}
	var processed ProcessReport
	if err := json.NewDecoder(processResp.Body).Decode(&processed); err != nil {
		t.Fatalf("failed to decode process report: %v", err)
	}
	if processed.Processed != 2 || processed.Failed != 0 {
		t.Fatalf("unexpected process report: %+v", processed)
	}

	// Second process attempt is rejected.
	retryResp, err := http.Post(fmt.Sprintf("%s/api/excel/%s/process", server.URL, upload.ImportID), "", nil)
	if err != nil {
		t.Fatalf("retry request failed: %v", err)
	}
	defer retryResp.Body.Close()
	if retryResp.StatusCode != http.StatusBadRequest {
		t.Fatalf("reprocess: expected 400, got %d", retryResp.StatusCode)
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	server := newTestServer(newStubStore())
	defer server.Close()

	resp := multipartUpload(t, server.URL, "invoices", "companies.csv", []byte("a,b\n1,2\n"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown entity type: expected 400, got %d", resp.StatusCode)
	}

	resp = multipartUpload(t, server.URL, "company", "legacy.xls", []byte("binary"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unsupported format: expected 400, got %d", resp.StatusCode)
	}

	resp = multipartUpload(t, server.URL, "company", "empty.csv", []byte("raison_sociale\n"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("file without data rows: expected 400, got %d", resp.StatusCode)
	}
}

func TestHandlerStatusMapping(t *testing.T) {
	server := newTestServer(newStubStore())
	defer server.Close()

	resp, err := http.Post(fmt.Sprintf("%s/api/excel/%s/validate", server.URL, uuid.New()), "", nil)
	if err != nil {
		t.Fatalf("validate request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown job: expected 404, got %d", resp.StatusCode)
	}

	resp, err = http.Post(server.URL+"/api/excel/not-a-uuid/validate", "", nil)
	if err != nil {
		t.Fatalf("validate request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed id: expected 400, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/api/excel/history")
	if err != nil {
		t.Fatalf("history request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", resp.StatusCode)
	}
	var page HistoryPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("failed to decode history page: %v", err)
	}
	if page.Total != 0 || page.Page != 1 {
		t.Fatalf("unexpected empty history page: %+v", page)
	}
}

func TestTemplateEndpoint(t *testing.T) {
	server := newTestServer(newStubStore())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/excel/template?entity_type=participant")
	if err != nil {
		t.Fatalf("template request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("template: expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type %q", ct)
	}

	resp, err = http.Get(server.URL + "/api/excel/template?entity_type=invoices")
	if err != nil {
		t.Fatalf("template request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown template type: expected 400, got %d", resp.StatusCode)
	}
}
