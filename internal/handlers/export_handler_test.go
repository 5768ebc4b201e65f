package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/common"
	"github.com/ternarybob/sitescoop/internal/export"
	"github.com/ternarybob/sitescoop/internal/interfaces"
)

// mockKVStorage implements interfaces.KeyValueStorage with no stored keys,
// which leaves the mailer unconfigured.
type mockKVStorage struct{}

func (m *mockKVStorage) Get(ctx context.Context, key string) (string, error) {
	return "", interfaces.ErrKeyNotFound
}

func (m *mockKVStorage) GetPair(ctx context.Context, key string) (*interfaces.KeyValuePair, error) {
	return nil, interfaces.ErrKeyNotFound
}

func (m *mockKVStorage) GetAll(ctx context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}

func (m *mockKVStorage) Set(ctx context.Context, key string, value string, description string) error {
	return nil
}

func (m *mockKVStorage) Delete(ctx context.Context, key string) error {
	return nil
}

func (m *mockKVStorage) List(ctx context.Context) ([]*interfaces.KeyValuePair, error) {
	return nil, nil
}

func newTestExportHandler() *ExportHandler {
	logger := arbor.NewLogger()
	config := &common.ExportConfig{FilenamePrefix: "sitescoop", PreviewLength: 500}
	return NewExportHandler(config, export.NewPDFRenderer(logger), export.NewMailer(&mockKVStorage{}, logger), logger)
}

func executeExport(handler *ExportHandler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ExportHandler(rec, req)
	return rec
}

const recordsBody = `{"records": [{"id": "0-Widget", "title": "Widget", "price": 19.99, "rating": 4.5, "link": "https://example.com/w"}]}`

func TestExportHandler_CSVDownload(t *testing.T) {
	handler := newTestExportHandler()

	rec := executeExport(handler, "/api/export/csv", recordsBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	disposition := rec.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "sitescoop_")
	assert.Contains(t, disposition, ".csv")

	body := rec.Body.String()
	assert.Contains(t, body, "id,title,description,link,imageUrl,date,price,rating")
	assert.Contains(t, body, "Widget")
}

func TestExportHandler_JSONDownload(t *testing.T) {
	handler := newTestExportHandler()

	rec := executeExport(handler, "/api/export/json", recordsBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"title": "Widget"`)
}

func TestExportHandler_TextUsesTxtExtension(t *testing.T) {
	handler := newTestExportHandler()

	rec := executeExport(handler, "/api/export/text", recordsBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".txt")
}

func TestExportHandler_PDFDownload(t *testing.T) {
	handler := newTestExportHandler()

	rec := executeExport(handler, "/api/export/pdf", recordsBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestExportHandler_ContentBundle(t *testing.T) {
	handler := newTestExportHandler()

	rec := executeExport(handler, "/api/export/csv", `{"content": {"contentType": "links", "links": ["https://example.com/a"]}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://example.com/a")
}

func TestExportHandler_UnknownFormat(t *testing.T) {
	handler := newTestExportHandler()

	rec := executeExport(handler, "/api/export/xlsx", recordsBody)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportHandler_NothingToExport(t *testing.T) {
	handler := newTestExportHandler()

	rec := executeExport(handler, "/api/export/csv", `{"records": []}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmailExportHandler_RequiresRecipient(t *testing.T) {
	handler := newTestExportHandler()

	req := httptest.NewRequest("POST", "/api/export/email", strings.NewReader(recordsBody))
	rec := httptest.NewRecorder()
	handler.EmailExportHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmailExportHandler_UnconfiguredSMTP(t *testing.T) {
	handler := newTestExportHandler()

	body := `{"to": "user@example.com", "records": [{"id": "0-Widget", "title": "Widget"}]}`
	req := httptest.NewRequest("POST", "/api/export/email", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.EmailExportHandler(rec, req)

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Contains(t, rec.Body.String(), "SMTP is not configured")
}
