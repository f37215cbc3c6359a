package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ridepool/internal/config"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	if err != nil {
		t.Fatal(err)
	}

	resp, err := s.Upload(context.Background(), &UploadRequest{
		Key:         "/photos/u1.jpg",
		Reader:      strings.NewReader("jpeg-bytes"),
		ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.URL != "http://localhost:8080/uploads/photos/u1.jpg" || resp.Size != 10 {
		t.Fatalf("unexpected response %+v", resp)
	}
	data, err := os.ReadFile(filepath.Join(dir, "photos", "u1.jpg"))
	if err != nil || string(data) != "jpeg-bytes" {
		t.Fatalf("file not written: %v %q", err, data)
	}

	if err := s.Delete(context.Background(), "photos/u1.jpg"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(context.Background(), "photos/u1.jpg"); err != nil {
		t.Fatalf("deleting a missing file should succeed, got %v", err)
	}
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://x")
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Upload(context.Background(), &UploadRequest{Key: "../escape.jpg", Reader: strings.NewReader("x")})
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), &config.StorageConfig{Provider: "ftp"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
