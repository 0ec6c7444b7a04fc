package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aliaport-backend/internal/storage"
)

// fakeStore records what was saved without touching disk or the network.
type fakeStore struct {
	savedPath string
	savedType string
	savedData []byte
}

func (f *fakeStore) Save(ctx context.Context, path string, file io.Reader, contentType string) (*storage.FileInfo, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	f.savedPath = path
	f.savedType = contentType
	f.savedData = data
	return &storage.FileInfo{
		URL:      "/api/files/" + path,
		FileName: path,
		FileSize: int64(len(data)),
		FileType: contentType,
	}, nil
}

func (f *fakeStore) Delete(ctx context.Context, path string) error { return nil }

func (f *fakeStore) URL(path string) string { return "/api/files/" + path }

func multipartBody(t *testing.T, fieldName, fileName string, content []byte, category string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if category != "" {
		require.NoError(t, mw.WriteField("category", category))
	}
	fw, err := mw.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadAcceptsPDF(t *testing.T) {
	store := &fakeStore{}
	h := NewUploadHandler(store)

	pdf := []byte("%PDF-1.4\n%fake declaration content")
	body, contentType := multipartBody(t, "file", "bildirge 2025.pdf", pdf, "sgk")

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", store.savedType)
	assert.Equal(t, pdf, store.savedData)
	// Category prefix and sanitized name (spaces replaced) in the path.
	assert.Regexp(t, `^sgk/\d+_bildirge_2025\.pdf$`, store.savedPath)
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	store := &fakeStore{}
	h := NewUploadHandler(store)

	body, contentType := multipartBody(t, "file", "script.html", []byte("<html><body>hi</body></html>"), "")

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.savedPath)
}

func TestUploadRequiresFileField(t *testing.T) {
	store := &fakeStore{}
	h := NewUploadHandler(store)

	body, contentType := multipartBody(t, "wrongfield", "a.pdf", []byte("%PDF-1.4"), "")

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
