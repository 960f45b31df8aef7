package entryparser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/models"
)

// newLLMServer serves OpenAI chat completions whose message content is
// content, and records the last request body.
func newLLMServer(t *testing.T, status int, content string) (*httptest.Server, *map[string]interface{}) {
	t.Helper()
	var last map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&last)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"model not loaded","type":"server_error"}}`))
			return
		}
		body, _ := json.Marshal(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "llama3.1",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}},
		})
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func newTestLLMParser(url string) *LLMParser {
	return NewLLMParser(config.LLMConfig{
		Enabled: true,
		BaseURL: url + "/v1",
		Model:   "llama3.1",
		Timeout: 5 * time.Second,
	}, "INR")
}

func TestLLMParser_Parse(t *testing.T) {
	srv, last := newLLMServer(t, http.StatusOK,
		`{"type":"expense","amount":349.999,"currency":"inr","category":"food","description":"pizza with friends"}`)

	got, err := newTestLLMParser(srv.URL).Parse(context.Background(), "paid 350 for pizza with friends", refNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != models.TransactionTypeExpense || got.Amount.String() != "350" {
		t.Errorf("got type=%s amount=%s", got.Type, got.Amount)
	}
	if got.Currency != "INR" || got.Category != "Food" {
		t.Errorf("got currency=%q category=%q", got.Currency, got.Category)
	}
	if got.ParsedBy != LLMParserName {
		t.Errorf("ParsedBy = %q", got.ParsedBy)
	}
	if !got.Date.Equal(models.DateOnly(refNow)) {
		t.Errorf("Date = %v", got.Date)
	}
	if (*last)["model"] != "llama3.1" {
		t.Errorf("request model = %v", (*last)["model"])
	}
	if temp, ok := (*last)["temperature"].(float64); !ok || temp <= 0 || temp > 0.2 {
		t.Errorf("request temperature = %v", (*last)["temperature"])
	}
}

func TestLLMParser_Normalizes(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  bool
		wantCat  string
		wantDesc string
	}{
		{"unknown category", `{"type":"income","amount":10,"category":"Lottery","description":"won"}`, false, "Other", "won"},
		{"loan category forced", `{"type":"lend","amount":10,"category":"Food","description":"to Sam"}`, false, "Loan", "to Sam"},
		{"empty description uses text", `{"type":"expense","amount":10,"category":"Bills"}`, false, "Bills", "the input"},
		{"fenced json", "```json\n{\"type\":\"expense\",\"amount\":5,\"category\":\"Food\",\"description\":\"tea\"}\n```", false, "Food", "tea"},
		{"not a transaction", `{"type":""}`, true, "", ""},
		{"negative amount", `{"type":"expense","amount":-3,"category":"Food"}`, true, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newLLMServer(t, http.StatusOK, tt.content)
			got, err := newTestLLMParser(srv.URL).Parse(context.Background(), "the input", refNow)
			if tt.wantErr {
				if !errors.Is(err, ErrUnrecognized) {
					t.Fatalf("error = %v, want ErrUnrecognized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Category != tt.wantCat || got.Description != tt.wantDesc {
				t.Errorf("got category=%q description=%q", got.Category, got.Description)
			}
		})
	}
}

func TestLLMParser_ServerError(t *testing.T) {
	srv, _ := newLLMServer(t, http.StatusInternalServerError, "")
	_, err := newTestLLMParser(srv.URL).Parse(context.Background(), "spent some money", refNow)
	if err == nil || errors.Is(err, ErrUnrecognized) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

type stubParser struct {
	entry *Entry
	err   error
	calls int
}

func (s *stubParser) Parse(context.Context, string, time.Time) (*Entry, error) {
	s.calls++
	return s.entry, s.err
}

func TestChain(t *testing.T) {
	want := &Entry{Description: "second"}

	first := &stubParser{err: ErrUnrecognized}
	failing := &stubParser{err: fmt.Errorf("connection refused")}
	second := &stubParser{entry: want}
	unused := &stubParser{entry: &Entry{}}

	got, err := Chain{first, failing, second, unused}.Parse(context.Background(), "x", refNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want the second parser's entry", got)
	}
	if unused.calls != 0 {
		t.Error("parsers after the first success must not run")
	}

	if _, err := (Chain{first, failing}).Parse(context.Background(), "x", refNow); !errors.Is(err, ErrUnrecognized) {
		t.Errorf("error = %v, want ErrUnrecognized", err)
	}
}

func TestNew_LLMOptional(t *testing.T) {
	chain, ok := New(&config.Config{DefaultCurrency: "INR"}).(Chain)
	if !ok || len(chain) != 1 {
		t.Fatalf("expected a rules-only chain, got %#v", chain)
	}

	chain = New(&config.Config{LLM: config.LLMConfig{Enabled: true, BaseURL: "http://localhost:11434/v1"}}).(Chain)
	if len(chain) != 2 {
		t.Errorf("expected rules and llm parsers, got %d", len(chain))
	}
}
