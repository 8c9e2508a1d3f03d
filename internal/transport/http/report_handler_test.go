package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpulse/internal/ingest"
	"retailpulse/internal/pipeline"
	"retailpulse/internal/report"
)

const handlerCSV = `Order Date,Category,Sales Per,Profit,Segment,State,Quantity,Order ID,Customer ID
2023-06-15,,$100,$20,Consumer,Kerala,2,A1,C1
not-a-date,Furniture,50,5,Consumer,Goa,1,A2,C2
2024-02-01,Technology,"1,000",250,Corporate,Kerala,3,A3,C3
`

func newTestHandler(t *testing.T) *ReportHandler {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	builder, err := report.NewBuilder(logger)
	require.NoError(t, err)

	return NewReportHandler(
		ingest.NewLoader(logger),
		pipeline.NewRunner(pipeline.NewStaticRateTable(), logger),
		builder,
		logger,
		1<<20,
		5,
	)
}

type formField struct{ name, value string }

func multipartUpload(t *testing.T, filename, content string, fields ...formField) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	for _, f := range fields {
		require.NoError(t, writer.WriteField(f.name, f.value))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func doRequest(t *testing.T, handler *ReportHandler, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	return rec
}

func TestPreviewSuccess(t *testing.T) {
	handler := newTestHandler(t)
	body, contentType := multipartUpload(t, "sales.csv", handlerCSV)

	rec := doRequest(t, handler, "/preview", body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Summary.TotalRows)
	assert.Equal(t, 2, resp.Summary.RetainedRows)
	assert.Equal(t, 1, resp.Summary.DroppedRows)
	assert.Equal(t, int64(5), resp.Summary.TotalQuantity)
	assert.Equal(t, 2, resp.Summary.DistinctOrders)

	// Tail keeps input order; last surviving row comes last.
	require.Len(t, resp.Tail, 2)
	assert.Equal(t, "A1", resp.Tail[0].OrderID)
	assert.Equal(t, "A3", resp.Tail[1].OrderID)
	assert.Equal(t, "Uncategorized", resp.Tail[0].Category)
	assert.Equal(t, 8250.0, resp.Tail[0].SalesINR)
}

func TestPreviewInvalidAmountFailsWholeRun(t *testing.T) {
	handler := newTestHandler(t)
	csv := strings.Replace(handlerCSV, "$20", "free", 1)
	body, contentType := multipartUpload(t, "sales.csv", csv)

	rec := doRequest(t, handler, "/preview", body, contentType)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "PIPELINE_FAILED")
	assert.NotContains(t, rec.Body.String(), `"tail"`)
}

func TestPreviewMissingColumn(t *testing.T) {
	handler := newTestHandler(t)
	body, contentType := multipartUpload(t, "sales.csv", "Order Date,Sales Per\n2023-06-15,100\n")

	rec := doRequest(t, handler, "/preview", body, contentType)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "PIPELINE_FAILED")
}

func TestPreviewUnreadableUpload(t *testing.T) {
	handler := newTestHandler(t)
	body, contentType := multipartUpload(t, "sales.xlsx", "definitely not a workbook")

	rec := doRequest(t, handler, "/preview", body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNREADABLE_UPLOAD")
}

func TestPreviewMissingFileField(t *testing.T) {
	handler := newTestHandler(t)
	body, contentType := multipartUpload(t, "", "")

	rec := doRequest(t, handler, "/preview", body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_UPLOAD")
}

func TestPreviewRejectsUnknownCurrency(t *testing.T) {
	handler := newTestHandler(t)
	body, contentType := multipartUpload(t, "sales.csv", handlerCSV, formField{"currency", "EUR"})

	rec := doRequest(t, handler, "/preview", body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestDownloadReturnsDashboardDocument(t *testing.T) {
	handler := newTestHandler(t)
	body, contentType := multipartUpload(t, "sales.csv", handlerCSV,
		formField{"currency", "USD"}, formField{"title", "June Review"})

	rec := doRequest(t, handler, "/download", body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	html := rec.Body.String()
	assert.Contains(t, html, "<title>June Review</title>")
	assert.Contains(t, html, `render("USD")`)
	assert.Contains(t, html, `"Sales_INR":8250`)
}

func TestHealthHandler(t *testing.T) {
	handler := NewHealthHandler("1.2.3")
	rec := httptest.NewRecorder()
	handler.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestIndexHandlerServesUploadPage(t *testing.T) {
	rec := httptest.NewRecorder()
	IndexHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload your sales file")
}
