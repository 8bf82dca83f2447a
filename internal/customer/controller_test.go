package customer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"comptoir/internal/upload"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	uploads, err := upload.NewStore(t.TempDir())
	require.NoError(t, err)

	ctrl := NewController(NewService(newFakeRepo()), uploads, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/customers", ctrl.List)
	r.Post("/customers", ctrl.Create)
	r.Get("/customers/{id}", ctrl.Get)
	r.Put("/customers/{id}", ctrl.Update)
	r.Delete("/customers/{id}", ctrl.Delete)
	r.Post("/customers/{id}/attachments", ctrl.UploadAttachment)
	return r
}

func TestController_Create_JSON(t *testing.T) {
	router := newTestRouter(t)

	body := `{"name": "Société Lumière", "category": "entreprise", "email": "contact@lumiere.tn"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.ID)
	assert.Equal(t, "Société Lumière", resp.Name)
}

func TestController_Create_JSON_Validation(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/customers", strings.NewReader(`{"category": "ong"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestController_Create_Multipart(t *testing.T) {
	router := newTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("name", "Société Lumière"))
	require.NoError(t, writer.WriteField("category", "installateur"))
	part, err := writer.CreateFormFile("files", "registre-commerce.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("pdf bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/customers", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CustomerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "installateur", resp.Category)
	require.Len(t, resp.Attachments, 1)
	assert.Equal(t, "registre-commerce.pdf", resp.Attachments[0].Name)
	assert.NotEmpty(t, resp.Attachments[0].StoredName)
}

func TestController_UploadAttachment(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/customers", strings.NewReader(`{"name": "Client", "category": "particulier"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "cin.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpg bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/customers/1/attachments", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AttachmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cin.jpg", resp.Name)
}

func TestController_UploadAttachment_UnknownCustomer(t *testing.T) {
	router := newTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "cin.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpg bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/customers/99/attachments", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestController_Delete(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/customers", strings.NewReader(`{"name": "Client", "category": "particulier"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/customers/1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/customers/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
