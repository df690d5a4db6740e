package videogen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateFillsDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.FPS != 24 || req.Resolution != "1280x720" {
			t.Errorf("defaults not applied: fps=%d resolution=%q", req.FPS, req.Resolution)
		}
		_ = json.NewEncoder(w).Encode(Result{VideoURL: "https://vid/clip.mp4", DurationSeconds: 6})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, FPS: 24, Resolution: "1280x720"})
	result, err := client.Generate(context.Background(), Request{
		ImageURL:        "https://img/final.png",
		Prompt:          "slow push in",
		DurationSeconds: 6,
		MotionStrength:  0.5,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.VideoURL != "https://vid/clip.mp4" {
		t.Fatalf("video url = %q", result.VideoURL)
	}
	if result.FPS != 24 {
		t.Fatalf("fps backfill = %d, want 24", result.FPS)
	}
}

func TestGenerateFailsWithoutVideoPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Result{})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.Generate(context.Background(), Request{ImageURL: "https://img/x.png"}); err == nil {
		t.Fatal("expected error for missing video payload")
	}
}

func TestExtractFrameClampsNegativeTimestamp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req extractFrameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Timestamp != 0 {
			t.Errorf("timestamp = %g, want 0", req.Timestamp)
		}
		_ = json.NewEncoder(w).Encode(extractFrameResponse{FrameURL: "https://img/frame.png"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	frame, err := client.ExtractFrame(context.Background(), "https://vid/clip.mp4", -1)
	if err != nil {
		t.Fatalf("ExtractFrame: %v", err)
	}
	if frame != "https://img/frame.png" {
		t.Fatalf("frame = %q", frame)
	}
}
