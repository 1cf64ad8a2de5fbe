package fonts

import (
	"encoding/base64"
	"testing"
)

func TestFace(t *testing.T) {
	face, err := Face(30)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	defer face.Close()
	if h := face.Metrics().Height.Ceil(); h < 30 {
		t.Errorf("face height = %d, want >= 30", h)
	}
}

func TestTTFBase64(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(TTFBase64())
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != len(TTF()) {
		t.Errorf("decoded %d bytes, want %d", len(data), len(TTF()))
	}
}
