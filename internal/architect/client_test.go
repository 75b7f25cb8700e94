package architect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chatResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(body)
}

func TestGenerate(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		msgs := req["messages"].([]any)
		last := msgs[len(msgs)-1].(map[string]any)
		gotBody = last["content"].(string)
		w.Write([]byte(chatResponse(validSolution)))
	}))
	defer srv.Close()

	c := NewClient(Config{APIURL: srv.URL, APIKey: "test-key", Model: "gemini-3-flash-preview"})
	sol, err := c.Generate(context.Background(), "migrate inventory to [REDACTED_EMAIL]")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if sol.ProblemSummary == "" {
		t.Error("empty solution")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if !strings.Contains(gotBody, "[REDACTED_EMAIL]") {
		t.Errorf("prompt missing problem text: %q", gotBody)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{APIURL: srv.URL, Model: "m"})
	_, err := c.Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("expected HTTP 429 error, got %v", err)
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIURL: srv.URL, Model: "m"})
	_, err := c.Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "empty response") {
		t.Errorf("expected empty response error, got %v", err)
	}
}

func TestGenerateMalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse("I recommend using the cloud.")))
	}))
	defer srv.Close()

	c := NewClient(Config{APIURL: srv.URL, Model: "m"})
	_, err := c.Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "cannot parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}
