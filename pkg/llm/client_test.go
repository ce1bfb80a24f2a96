package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"roleplay-coach-go/internal/config"
	"strings"
	"testing"
	"time"
)

func sseServer(t *testing.T, check func(r *http.Request, body chatRequest), lines ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body chatRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if check != nil {
			check(r, body)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, l := range lines {
			fmt.Fprintf(w, "%s\n\n", l)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func delta(content string) string {
	return fmt.Sprintf(`data: {"choices":[{"delta":{"content":%q}}]}`, content)
}

func testConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		APIKey:  "sk-test",
		BaseURL: baseURL,
		Model:   "deepseek/deepseek-chat",
		Referer: "https://example.com",
		Title:   "Test Platform",
		Generation: config.LLMGenerationConfig{
			Temperature: 1.0,
			TopP:        0.95,
			MaxTokens:   500,
		},
	}
}

func TestStreamChatMessagesAccumulatesChunks(t *testing.T) {
	srv := sseServer(t, func(r *http.Request, body chatRequest) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Missing bearer token")
		}
		if r.Header.Get("HTTP-Referer") != "https://example.com" || r.Header.Get("X-Title") != "Test Platform" {
			t.Errorf("Missing attribution headers: %v", r.Header)
		}
		if !body.Stream || body.Model != "deepseek/deepseek-chat" {
			t.Errorf("Unexpected request body: %+v", body)
		}
		if body.Temperature == nil || *body.Temperature != 1.0 || body.MaxTokens == nil || *body.MaxTokens != 500 {
			t.Errorf("Generation params not taken from config: %+v", body)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != RoleSystem {
			t.Errorf("Unexpected messages: %+v", body.Messages)
		}
	}, delta("Fix "), `: keep-alive`, delta("it now."), "data: [DONE]")

	var chunks []string
	answer, err := NewClient(testConfig(srv.URL)).StreamChatMessages(context.Background(),
		[]Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "hi"}},
		nil,
		func(c string) error { chunks = append(chunks, c); return nil },
	)
	if err != nil {
		t.Fatalf("StreamChatMessages failed: %v", err)
	}
	if answer != "Fix it now." {
		t.Errorf("Expected full answer, got %q", answer)
	}
	if len(chunks) != 2 {
		t.Errorf("Expected 2 chunks, got %v", chunks)
	}
}

func TestStreamChatMessagesExplicitParamsWin(t *testing.T) {
	srv := sseServer(t, func(r *http.Request, body chatRequest) {
		if body.Temperature == nil || *body.Temperature != 0.2 {
			t.Errorf("Expected explicit temperature, got %+v", body.Temperature)
		}
		if body.MaxTokens != nil {
			t.Errorf("Expected max_tokens omitted, got %d", *body.MaxTokens)
		}
	}, delta("ok"), "data: [DONE]")

	temp := 0.2
	_, err := NewClient(testConfig(srv.URL)).StreamChatMessages(context.Background(), nil, &GenerationParams{Temperature: &temp}, nil)
	if err != nil {
		t.Fatal(err)
	}
}

func TestStreamChatMessagesNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).StreamChatMessages(context.Background(), nil, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("Expected 401 error, got %v", err)
	}
}

func TestStreamChatMessagesStreamError(t *testing.T) {
	srv := sseServer(t, nil, delta("partial"), `data: {"error":{"message":"provider overloaded","code":502}}`)

	_, err := NewClient(testConfig(srv.URL)).StreamChatMessages(context.Background(), nil, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "provider overloaded") {
		t.Errorf("Expected stream error, got %v", err)
	}
}

func TestStreamChatMessagesWithoutDone(t *testing.T) {
	srv := sseServer(t, nil, delta("no terminator"))

	answer, err := NewClient(testConfig(srv.URL)).StreamChatMessages(context.Background(), nil, nil, nil)
	if err != nil || answer != "no terminator" {
		t.Errorf("Expected answer at EOF, got %q err=%v", answer, err)
	}
}

func TestStreamChatMessagesChunkHandlerError(t *testing.T) {
	srv := sseServer(t, nil, delta("a"), delta("b"), "data: [DONE]")
	stop := errors.New("client gone")

	_, err := NewClient(testConfig(srv.URL)).StreamChatMessages(context.Background(), nil, nil, func(string) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("Expected handler error, got %v", err)
	}
}

func TestStreamChatMessagesContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient(testConfig(srv.URL)).StreamChatMessages(ctx, nil, nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestGenerationFromConfig(t *testing.T) {
	if GenerationFromConfig(config.LLMGenerationConfig{}) != nil {
		t.Error("Expected nil for empty config")
	}
	gp := GenerationFromConfig(config.LLMGenerationConfig{TopP: 0.9})
	if gp == nil || gp.TopP == nil || *gp.TopP != 0.9 || gp.Temperature != nil {
		t.Errorf("Unexpected params: %+v", gp)
	}
}
