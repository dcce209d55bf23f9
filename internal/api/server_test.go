package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funnelscope/adapters/datareadiness"
	"funnelscope/adapters/excel"
	"funnelscope/adapters/memory"
	"funnelscope/app"
	"funnelscope/internal"
	"funnelscope/internal/dataset"
	apperrors "funnelscope/internal/errors"
	"funnelscope/internal/testkit"
)

type testServer struct {
	handler   http.Handler
	uploadDir string
}

func newTestServer(t *testing.T, maxUpload int64) *testServer {
	t.Helper()
	logger := internal.NewLogger(internal.LogLevelError)
	reader := excel.NewDataReader(excel.DefaultReaderConfig(), logger)
	svc := app.NewImportService(reader, datareadiness.NewProfilerAdapter(nil), memory.NewImportRepository(), logger)

	dir := t.TempDir()
	storage := dataset.NewLocalFileStorage(&dataset.StorageConfig{BasePath: dir, MaxFileSize: maxUpload})
	srv := NewServer(Config{MaxUploadBytes: maxUpload}, svc, storage, logger)
	return &testServer{handler: srv.Handler(), uploadDir: dir}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(FileField, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func checkoutExport() []byte {
	return testkit.NewExportBuilder().
		Preamble("Checkout").
		Header().
		Row("1. View cart", "All Users", "2h", "1,000", "0.8", "200", "0.2").
		Row("2. Payment", "All Users", "45m", "800", "0.5", "400", "0.5").
		Bytes()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	rec := newTestServer(t, 0).do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestFunnelUploadRoundTrip(t *testing.T) {
	ts := newTestServer(t, 1<<20)

	rec := ts.do(uploadRequest(t, "/api/imports/funnel", "checkout.csv", checkoutExport()))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Record struct {
			ID       string `json:"id"`
			Kind     string `json:"kind"`
			Name     string `json:"name"`
			RowCount int    `json:"row_count"`
		} `json:"record"`
		Funnel struct {
			Rows []struct {
				Step           string `json:"step"`
				ElapsedSeconds int64  `json:"elapsed_seconds"`
			} `json:"rows"`
		} `json:"funnel"`
		Persisted bool `json:"persisted"`
	}
	decode(t, rec, &created)
	assert.True(t, created.Persisted)
	assert.Equal(t, "funnel", created.Record.Kind)
	assert.Equal(t, "Checkout", created.Record.Name)
	assert.Equal(t, 2, created.Record.RowCount)
	require.Len(t, created.Funnel.Rows, 2)
	assert.Equal(t, int64(7200), created.Funnel.Rows[0].ElapsedSeconds)

	entries, err := os.ReadDir(ts.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "stored upload is removed after import")

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/imports/"+created.Record.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/imports/"+created.Record.ID+"/export.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Step,Elapsed time,"))
	assert.Contains(t, rec.Body.String(), "1. View cart,2h,1000,80%,200,20%")

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/imports?kind=funnel", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Count int `json:"count"`
	}
	decode(t, rec, &listed)
	assert.Equal(t, 1, listed.Count)
}

func TestDatasetUpload(t *testing.T) {
	ts := newTestServer(t, 1<<20)
	content := []byte(testkit.TabularCSV(testkit.TabularConfig{Rows: 20, Seed: 3}))

	rec := ts.do(uploadRequest(t, "/api/imports/dataset", "customers.csv", content))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Dataset struct {
			RowCount int `json:"row_count"`
			Columns  []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"columns"`
		} `json:"dataset"`
	}
	decode(t, rec, &created)
	assert.Equal(t, 20, created.Dataset.RowCount)
	require.Len(t, created.Dataset.Columns, 5)
	assert.Equal(t, "id", created.Dataset.Columns[0].Name)
	assert.Equal(t, "number", created.Dataset.Columns[0].Type)
}

func TestUploadErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		filename string
		content  string
		status   int
		code     string
	}{
		{"no header", "/api/imports/funnel", "a.csv", "a,b\n1,2\n", http.StatusUnprocessableEntity, apperrors.CodeHeaderNotFound},
		{"empty", "/api/imports/funnel", "a.csv", "", http.StatusUnprocessableEntity, apperrors.CodeEmptyInput},
		{"unsupported", "/api/imports/dataset", "a.json", "{}", http.StatusUnsupportedMediaType, apperrors.CodeUnsupportedFormat},
		{"unreadable workbook", "/api/imports/dataset", "a.xlsx", "junk", http.StatusBadRequest, apperrors.CodeReadFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newTestServer(t, 1<<20).do(uploadRequest(t, tt.path, tt.filename, []byte(tt.content)))
			assert.Equal(t, tt.status, rec.Code)
			var body errorBody
			decode(t, rec, &body)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestUploadMissingFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/imports/funnel", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	rec := newTestServer(t, 0).do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadTooLarge(t *testing.T) {
	rec := newTestServer(t, 16).do(uploadRequest(t, "/api/imports/funnel", "big.csv", checkoutExport()))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestGetImportErrors(t *testing.T) {
	ts := newTestServer(t, 0)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/imports/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/imports/0190b7a4-8f5e-7c1a-9d3e-123456789abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/imports?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/imports?kind=other", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"column":"Elapsed time","value":106200}`, "1d 5h 30m"},
		{`{"column":"completion_rate","value":25.2}`, "25.2%"},
		{`{"column":"Active users","value":1234567}`, "1,234,567"},
		{`{"column":"note","value":null}`, ""},
		{`{"column":"flag","value":true}`, "true"},
	}
	ts := newTestServer(t, 0)
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/format", strings.NewReader(tt.body)))
			require.Equal(t, http.StatusOK, rec.Code)
			var out map[string]string
			decode(t, rec, &out)
			assert.Equal(t, tt.want, out["text"])
		})
	}

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/format", strings.NewReader("nope")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
