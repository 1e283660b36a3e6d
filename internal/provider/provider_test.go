package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"qac/internal/quiz"
)

func TestFetchQwen_RequestShape(t *testing.T) {
	var captured map[string]any
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = io.WriteString(w, `{"output":{"text":"题目文本"}}`)
	}))
	defer server.Close()

	f := NewFetcher(5000, 0, nil)
	settings := quiz.Settings{
		APIModel:  "qwen-max",
		APIURL:    server.URL,
		APIKey:    "sk-test",
		APIPrompt: "出题",
	}
	text, err := f.FetchQuestionText(context.Background(), settings)
	if err != nil {
		t.Fatalf("FetchQuestionText: %v", err)
	}
	if text != "题目文本" {
		t.Fatalf("text=%q", text)
	}
	if auth != "Bearer sk-test" {
		t.Fatalf("auth=%q", auth)
	}
	if captured["model"] != "qwen-max" {
		t.Fatalf("model=%v", captured["model"])
	}
	// Qwen 信封：input.messages 与 parameters.temperature
	// Qwen envelope: input.messages plus parameters.temperature.
	input, ok := captured["input"].(map[string]any)
	if !ok {
		t.Fatalf("input missing: %v", captured)
	}
	if _, ok := input["messages"]; !ok {
		t.Fatalf("input.messages missing: %v", input)
	}
	params, ok := captured["parameters"].(map[string]any)
	if !ok || params["temperature"] != 0.7 {
		t.Fatalf("parameters=%v", captured["parameters"])
	}
}

func TestFetchQwen_ChoicesShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"output":{"choices":[{"message":{"content":"备选形态"}}]}}`)
	}))
	defer server.Close()

	f := NewFetcher(5000, 0, nil)
	text, err := f.FetchQuestionText(context.Background(), quiz.Settings{
		APIModel: "qwen-max", APIURL: server.URL, APIKey: "k", APIPrompt: "p",
	})
	if err != nil {
		t.Fatalf("FetchQuestionText: %v", err)
	}
	if text != "备选形态" {
		t.Fatalf("text=%q", text)
	}
}

func TestFetchQwen_Non2xxIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	f := NewFetcher(5000, 0, nil)
	_, err := f.FetchQuestionText(context.Background(), quiz.Settings{
		APIModel: "qwen-max", APIURL: server.URL, APIKey: "k", APIPrompt: "p",
	})
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("err=%v, want NetworkError", err)
	}
	if ne.Status != http.StatusTooManyRequests {
		t.Fatalf("Status=%d", ne.Status)
	}
	// 诊断信息必须包含端点与请求体 / Diagnostics carry endpoint and request body.
	if ne.Endpoint != server.URL || ne.RequestBody == "" {
		t.Fatalf("diagnostics incomplete: %+v", ne)
	}
}

func TestFetchOpenAI_ChatCompletions(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path=%q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"[{\"id\":1}]"}}]}`)
	}))
	defer server.Close()

	f := NewFetcher(5000, 0, nil)
	settings := quiz.Settings{
		APIModel:  "gpt-3.5-turbo",
		APIURL:    server.URL + "/v1/chat/completions",
		APIKey:    "sk-test",
		APIPrompt: "generate",
	}
	text, err := f.FetchQuestionText(context.Background(), settings)
	if err != nil {
		t.Fatalf("FetchQuestionText: %v", err)
	}
	if text != `[{"id":1}]` {
		t.Fatalf("text=%q", text)
	}
	if captured["model"] != "gpt-3.5-turbo" {
		t.Fatalf("model=%v", captured["model"])
	}
	if captured["temperature"] != 0.7 {
		t.Fatalf("temperature=%v", captured["temperature"])
	}
}

func TestFetch_TimeoutIsDistinct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	f := NewFetcher(5000, 0, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.FetchQuestionText(ctx, quiz.Settings{
		APIModel: "qwen-max", APIURL: server.URL, APIKey: "k", APIPrompt: "p",
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err=%v, want ErrTimeout", err)
	}
}

func TestFetch_PromptBudget(t *testing.T) {
	f := NewFetcher(5000, 1, nil)
	_, err := f.FetchQuestionText(context.Background(), quiz.Settings{
		APIModel:  "qwen-max",
		APIURL:    "http://unused.invalid",
		APIKey:    "k",
		APIPrompt: strings.Repeat("很长的提示词", 200),
	})
	if !errors.Is(err, ErrPromptTooLong) {
		t.Fatalf("err=%v, want ErrPromptTooLong", err)
	}
}

func TestBaseURLFromEndpoint(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://api.openai.com/v1/chat/completions", "https://api.openai.com/v1"},
		{"https://api.deepseek.com/v1/chat/completions/", "https://api.deepseek.com/v1"},
		{"https://example.com/v1", "https://example.com/v1"},
	}
	for _, tc := range cases {
		if got := baseURLFromEndpoint(tc.in); got != tc.want {
			t.Fatalf("baseURLFromEndpoint(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHeuristicCount(t *testing.T) {
	if got := heuristicCount("abcdefgh"); got != 2 {
		t.Fatalf("ascii count=%d, want 2", got)
	}
	if got := heuristicCount("中文字符"); got != 4 {
		t.Fatalf("cjk count=%d, want 4", got)
	}
	if got := heuristicCount("abc"); got != 1 {
		t.Fatalf("short text count=%d, want at least 1", got)
	}
}
