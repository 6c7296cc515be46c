package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pafou/PLANDECH-back/internal/importer"
	"github.com/pafou/PLANDECH-back/internal/middleware"
)

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestListAllRendersPivot(t *testing.T) {
	env := setupTestServer(t)
	_, err := importRows(t, env, `[{"name":"Doe","firstname":"Jane","subject":"Math","type":"Core","202401":"20","202402":"4"}]`)
	require.NoError(t, err)

	resp, body := get(t, env.server.URL+"/api/list_all")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	html := string(body)
	assert.Contains(t, html, "<th>Name</th><th>Firstname</th><th>Subject</th><th>Type</th><th>Comment</th><th>2024-01</th><th>2024-02</th>")
	assert.Contains(t, html, "<td>Doe</td><td>Jane</td><td>Math</td><td>Core</td><td></td><td>20</td><td>4</td>")
}

func xlsxUpload(t *testing.T, lines [][]any) (*bytes.Buffer, string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &line))
	}
	var book bytes.Buffer
	require.NoError(t, f.Write(&book))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "workload.xlsx")
	require.NoError(t, err)
	_, err = part.Write(book.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestImportXLSX(t *testing.T) {
	env := setupTestServer(t)
	body, contentType := xlsxUpload(t, [][]any{
		{"name", "firstname", "subject", "type", "comment", "202401"},
		{"Doe", "Jane", "Math", "Core", "lead", "20"},
		{"Doe", "Jane", "Chemistry", "Core", "", "3"},
	})

	resp, err := http.Post(env.server.URL+"/api/workload/import.xlsx", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary importer.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 1, summary.ImportedCount)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, "Subject not found", summary.SkippedLines[0].Reason)

	all, err := env.store.WorkloadRows(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "lead", all[0].Comment.String)
}

func TestImportXLSXRejectsBadUploads(t *testing.T) {
	env := setupTestServer(t)

	resp, err := http.Post(env.server.URL+"/api/workload/import.xlsx", "text/plain", bytes.NewBufferString("nope"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, contentType := xlsxUpload(t, [][]any{
		{"name", "firstname", "subject", "type", "202413"},
		{"Doe", "Jane", "Math", "Core", "1"},
	})
	resp, err = http.Post(env.server.URL+"/api/workload/import.xlsx", contentType, body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportXLSX(t *testing.T) {
	env := setupTestServer(t)
	_, err := importRows(t, env, `[{"name":"Doe","firstname":"Jane","subject":"Math","type":"Core","comment":"lead","202401":"20"}]`)
	require.NoError(t, err)

	resp, body := get(t, env.server.URL+"/api/workload/export.xlsx")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxMediaType, resp.Header.Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	lines, err := f.GetRows("Workload")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"Doe", "Jane", "Math", "Core", "lead", "20"}, lines[1])
}

func TestHealthzAndMetrics(t *testing.T) {
	env := setupTestServer(t)

	resp, body := get(t, env.server.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	_, err := importRows(t, env, `[{"name":"Nobody","firstname":"X","subject":"Math","type":"Core"}]`)
	require.NoError(t, err)

	resp, body = get(t, env.server.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `workload_import_rows_total{code="person_not_found",result="skipped"}`)
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		name    string
		headers string
	}{
		{"content type", "content-type"},
		{"connect headers", "connect-protocol-version,content-type"},
		{"request id", "content-type,x-request-id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodOptions, env.server.URL+ImportWorkloadProcedure, nil)
			require.NoError(t, err)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			req.Header.Set("Access-Control-Request-Headers", tt.headers)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}
