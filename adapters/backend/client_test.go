package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/bhashakisan/assistant/domain/entities"
)

func TestAnalyzeTextQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Body is not multipart: %v", err)
		}
		if got := r.FormValue("user_id"); got != "farmer_1" {
			t.Errorf("Expected user_id farmer_1, got %q", got)
		}
		if got := r.FormValue("text"); got != "Tamatar me khad?" {
			t.Errorf("Expected text field, got %q", got)
		}
		if _, _, err := r.FormFile("image"); err == nil {
			t.Error("Text query must not carry an image part")
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "Use nitrogen-rich fertilizer"})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, zaptest.NewLogger(t))

	payload, err := client.Analyze(context.Background(), entities.Query{
		ID:       "q1",
		UserID:   "farmer_1",
		Modality: entities.ModalityText,
		Text:     "Tamatar me khad?",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	var answer string
	if err := json.Unmarshal(payload.Answer, &answer); err != nil {
		t.Fatalf("Answer is not a string: %v", err)
	}
	if answer != "Use nitrogen-rich fertilizer" {
		t.Errorf("Unexpected answer: %q", answer)
	}
}

func TestAnalyzeImageQuery(t *testing.T) {
	imageData := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Body is not multipart: %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("Missing image part: %v", err)
		}
		defer file.Close()

		if got := header.Header.Get("Content-Type"); got != "image/jpeg" {
			t.Errorf("Expected declared MIME image/jpeg, got %q", got)
		}
		data, _ := io.ReadAll(file)
		if len(data) != len(imageData) {
			t.Errorf("Expected %d image bytes, got %d", len(imageData), len(data))
		}
		if r.FormValue("text") != "" {
			t.Error("Image query must not carry a text field")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"answer": map[string]string{
				"crop_type":     "Tomato",
				"response_text": "Apply fungicide",
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, zaptest.NewLogger(t))

	payload, err := client.Analyze(context.Background(), entities.Query{
		ID:        "q2",
		UserID:    "farmer_1",
		Modality:  entities.ModalityImage,
		Image:     imageData,
		ImageMIME: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(payload.Answer) == 0 {
		t.Error("Expected a raw answer payload")
	}
}

func TestAnalyzeNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, zaptest.NewLogger(t))

	_, err := client.Analyze(context.Background(), entities.Query{
		UserID:   "farmer_1",
		Modality: entities.ModalityText,
		Text:     "hello",
	})

	var serverErr *entities.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("Expected ServerError, got %v", err)
	}
	if serverErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", serverErr.StatusCode)
	}
}

func TestAnalyzeTransportFailure(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, zaptest.NewLogger(t))

	_, err := client.Analyze(context.Background(), entities.Query{
		UserID:   "farmer_1",
		Modality: entities.ModalityText,
		Text:     "hello",
	})
	if err == nil {
		t.Fatal("Expected a transport error")
	}

	var serverErr *entities.ServerError
	if errors.As(err, &serverErr) {
		t.Error("Transport failures are classified by the dispatcher, not the client")
	}
}
