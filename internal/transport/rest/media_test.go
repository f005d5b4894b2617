package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/heartmarshall/microblog-backend/internal/domain"
)

type mediaServiceMock struct {
	RegisterMediaFunc func(ctx context.Context, fileURI string) (*domain.MediaAttachment, error)
}

func (m *mediaServiceMock) RegisterMedia(ctx context.Context, fileURI string) (*domain.MediaAttachment, error) {
	return m.RegisterMediaFunc(ctx, fileURI)
}

func TestMediaRegister_Created(t *testing.T) {
	t.Parallel()

	svc := &mediaServiceMock{
		RegisterMediaFunc: func(_ context.Context, fileURI string) (*domain.MediaAttachment, error) {
			return &domain.MediaAttachment{ID: uuid.New(), FileURI: fileURI}, nil
		},
	}
	h := NewMediaHandler(svc, testLogger())

	body := `{"fileUri":"s3://bucket/img.png"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp mediaResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.FileURI != "s3://bucket/img.png" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestMediaRegister_AnonymousUnauthorized(t *testing.T) {
	t.Parallel()

	svc := &mediaServiceMock{
		RegisterMediaFunc: func(context.Context, string) (*domain.MediaAttachment, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	h := NewMediaHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", strings.NewReader(`{"fileUri":"s3://b/i.png"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}
