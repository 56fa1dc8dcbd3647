package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmcooller/Real-ESRGAN/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUpscaleService struct {
	result      domain.UpscaleResult
	err         error
	lastRequest domain.UpscaleRequest
	lastImage   []byte
	called      bool
}

func (m *mockUpscaleService) Upscale(_ context.Context, image []byte,
	request domain.UpscaleRequest) (domain.UpscaleResult, error) {
	m.called = true
	m.lastImage = image
	m.lastRequest = request

	return m.result, m.err
}

func newTestRouter(service *mockUpscaleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAPI(service).Register(router)

	return router
}

func multipartBody(t *testing.T, fields map[string]string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	if fileContent != nil {
		fw, err := writer.CreateFormFile("file", "input.png")
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}

	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestUpscaleEndpoint(t *testing.T) {
	service := &mockUpscaleService{result: domain.UpscaleResult{Data: []byte("enhanced"), Extension: "jpg"}}
	router := newTestRouter(service)

	body, contentType := multipartBody(t, map[string]string{
		"model":            "realesr-general-x4v3",
		"denoise_strength": "0.3",
		"outscale":         "2",
		"face_enhance":     "true",
	}, []byte("raw image"))

	req := httptest.NewRequest(http.MethodPost, "/api/upscale", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "jpg", rec.Header().Get("X-Extension"))
	assert.Equal(t, []byte("enhanced"), rec.Body.Bytes())

	assert.Equal(t, []byte("raw image"), service.lastImage)
	assert.Equal(t, domain.ModelRealESRGeneralX4V3, service.lastRequest.Model)
	require.NotNil(t, service.lastRequest.DenoiseStrength)
	assert.InDelta(t, 0.3, *service.lastRequest.DenoiseStrength, 0)
	assert.InDelta(t, 2.0, service.lastRequest.Outscale, 0)
	assert.True(t, service.lastRequest.FaceEnhance)
}

func TestUpscaleEndpointMissingFile(t *testing.T) {
	service := &mockUpscaleService{}
	router := newTestRouter(service)

	body, contentType := multipartBody(t, map[string]string{"model": "RealESRGAN_x4plus"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/upscale", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, service.called)
}

func TestUpscaleEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid model", err: domain.ErrInvalidModel, wantStatus: http.StatusBadRequest},
		{name: "invalid request", err: domain.ErrInvalidRequest, wantStatus: http.StatusBadRequest},
		{name: "device unavailable", err: domain.ErrDeviceUnavailable, wantStatus: http.StatusBadRequest},
		{name: "undecodable input", err: domain.ErrDecodingFailed, wantStatus: http.StatusBadRequest},
		{name: "download failure", err: domain.ErrDownloadFailed, wantStatus: http.StatusInternalServerError},
		{name: "inference failure", err: domain.ErrInferenceFailed, wantStatus: http.StatusInternalServerError},
		{name: "encoding failure", err: domain.ErrEncodingFailed, wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&mockUpscaleService{err: tc.err})

			body, contentType := multipartBody(t, map[string]string{"model": "foo"}, []byte("img"))

			req := httptest.NewRequest(http.MethodPost, "/api/upscale", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestUpscaleEndpointInvalidFormValues(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{name: "bad denoise strength", fields: map[string]string{"denoise_strength": "strong"}},
		{name: "bad tile", fields: map[string]string{"tile": "many"}},
		{name: "bad fp32", fields: map[string]string{"fp32": "yep"}},
		{name: "bad gpu id", fields: map[string]string{"gpu_id": "first"}},
		{name: "bad outscale", fields: map[string]string{"outscale": "big"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service := &mockUpscaleService{}
			router := newTestRouter(service)

			body, contentType := multipartBody(t, tc.fields, []byte("img"))

			req := httptest.NewRequest(http.MethodPost, "/api/upscale", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, service.called)
		})
	}
}

func TestModelsEndpoint(t *testing.T) {
	router := newTestRouter(&mockUpscaleService{})

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Models []string `json:"models"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Len(t, response.Models, 6)
	assert.Contains(t, response.Models, "RealESRGAN_x4plus")
	assert.Contains(t, response.Models, "realesr-general-x4v3")
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", contentTypeFor("jpg"))
	assert.Equal(t, "image/png", contentTypeFor("png"))
	assert.Equal(t, "image/webp", contentTypeFor("webp"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("tiff"))
}
