package upload

import (
	"mime/multipart"
	"testing"
)

func header(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func TestValidateImage(t *testing.T) {
	s, err := NewStore(t.TempDir(), MaxImageSize)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	cases := []struct {
		name    string
		fh      *multipart.FileHeader
		wantErr bool
	}{
		{"nil header", nil, true},
		{"jpeg ok", header("car.jpeg", 1024), false},
		{"jpg ok", header("car.JPG", 1024), false},
		{"png ok", header("grid.png", 1024), false},
		{"gif ok", header("lap.gif", 1024), false},
		{"webp ok", header("podium.webp", 1024), false},
		{"svg rejected", header("logo.svg", 1024), true},
		{"no extension rejected", header("raw", 1024), true},
		{"oversize rejected", header("huge.png", MaxImageSize+1), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.ValidateImage(tc.fh)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateImage(%v) err=%v, wantErr=%v", tc.fh, err, tc.wantErr)
			}
		})
	}
}

func TestDeleteMissingFile(t *testing.T) {
	s, err := NewStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Delete("never-stored.png"); err != nil {
		t.Fatalf("deleting a missing file should be a no-op, got %v", err)
	}
	if err := s.Delete(""); err != nil {
		t.Fatalf("deleting empty name should be a no-op, got %v", err)
	}
}
