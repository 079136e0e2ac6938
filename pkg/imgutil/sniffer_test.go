package imgutil

import (
	"bytes"
	"testing"
)

func TestDetectHeader(t *testing.T) {
	cases := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0, 0, 0, 0, 0}, KindJPEG},
		{"png", []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d}, KindPNG},
		{"gif", []byte("GIF89a\x00\x00\x00\x00\x00\x00"), KindGIF},
		{"bmp", []byte("BM\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"), KindBMP},
		{"tiff-le", []byte{0x49, 0x49, 0x2a, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}, KindTIFF},
		{"tiff-be", []byte{0x4d, 0x4d, 0x00, 0x2a, 0, 0, 0, 0, 0, 0, 0, 0}, KindTIFF},
		{"webp", []byte("RIFF\x24\x00\x00\x00WEBP"), KindWebP},
		{"riff-not-webp", []byte("RIFF\x24\x00\x00\x00WAVE"), KindUnknown},
		{"text", []byte("hello world!"), KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectHeader(tc.header)
			if err != nil {
				t.Fatalf("DetectHeader: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDetectHeaderTooShort(t *testing.T) {
	if _, err := DetectHeader([]byte{0xff, 0xd8}); err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestSniffReader(t *testing.T) {
	data := append([]byte{0xff, 0xd8, 0xff, 0xe0}, make([]byte, 32)...)
	kind, err := SniffReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("SniffReader: %v", err)
	}
	if kind != KindJPEG {
		t.Fatalf("got %v, want %v", kind, KindJPEG)
	}
}

func TestCandidateExt(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"shot.PNG", true},
		{"anim.gif", true},
		{"scan.tiff", true},
		{"pic.webp", true},
		{"pic.avif", true},
		{"pic.heic", true},
		{"old.bmp", true},
		{"notes.txt", false},
		{"archive.jpg.zip", false},
		{"noext", false},
	}

	for _, tc := range cases {
		if got := CandidateExt(tc.name); got != tc.want {
			t.Errorf("CandidateExt(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
