package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"moving-quotes-go/internal/config"
	"moving-quotes-go/internal/logger"
	"moving-quotes-go/internal/types"
)

// newChatServer fakes the chat completions endpoint. reply receives the decoded
// request and returns the status code and the assistant content (or raw error body).
func newChatServer(t *testing.T, reply func(req openai.ChatCompletionRequest) (int, string)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		status, content := reply(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(content))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestExtractor(srvURL string, maxRetries uint64) *StructuredExtractor {
	cfg := config.OpenAI{APIKey: "test-key", BaseURL: srvURL + "/v1", MaxRetries: maxRetries}
	return NewStructuredExtractor(cfg, config.NewOpenAIClient(cfg), logger.Discard())
}

func TestStructuredExtractor_ParsesJSONObject(t *testing.T) {
	srv, calls := newChatServer(t, func(req openai.ChatCompletionRequest) (int, string) {
		if req.ResponseFormat == nil || req.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
			t.Errorf("expected json_object response format, got %+v", req.ResponseFormat)
		}
		if req.Model != config.DefaultChatModel {
			t.Errorf("expected default model, got %s", req.Model)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "Transcript: hello movers") {
			t.Errorf("transcript not embedded in user message: %+v", req.Messages)
		}
		return http.StatusOK, `{"company_name":"ABC Movers","origin_location":"Austin","destination_location":"Chicago",` +
			`"price":"$2,000","lead_time":5,"service_level":"packing_only","insurance_coverage":"basic"}`
	})

	got, err := newTestExtractor(srv.URL, 0).Extract(context.Background(), "hello movers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := types.Fields{
		CompanyName:         "ABC Movers",
		OriginLocation:      "Austin",
		DestinationLocation: "Chicago",
		Price:               "$2,000",
		LeadTime:            "5",
		ServiceLevel:        types.ServicePackingOnly,
		InsuranceCoverage:   "basic",
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("expected 1 call, got %d", atomic.LoadInt32(calls))
	}
}

func TestStructuredExtractor_MissingKeysDefault(t *testing.T) {
	srv, _ := newChatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		return http.StatusOK, "```json\n{\"price\": \"$500\", \"lead_time\": null, \"extra\": 1}\n```"
	})

	got, err := newTestExtractor(srv.URL, 0).Extract(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := types.Fields{Price: "$500", ServiceLevel: types.ServiceNone}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestStructuredExtractor_ParseFailure(t *testing.T) {
	srv, _ := newChatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		return http.StatusOK, "Sorry, I cannot help with that."
	})

	_, err := newTestExtractor(srv.URL, 0).Extract(context.Background(), "x")
	if !errors.Is(err, ErrResponseParse) {
		t.Fatalf("expected ErrResponseParse, got %v", err)
	}
	if !errors.Is(err, ErrExtractionFailure) {
		t.Errorf("expected error to wrap ErrExtractionFailure")
	}
}

func TestStructuredExtractor_ServerErrorSingleAttempt(t *testing.T) {
	srv, calls := newChatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		return http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`
	})

	_, err := newTestExtractor(srv.URL, 0).Extract(context.Background(), "x")
	if !errors.Is(err, ErrRemoteCall) {
		t.Fatalf("expected ErrRemoteCall, got %v", err)
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("expected exactly one attempt, got %d", atomic.LoadInt32(calls))
	}
}

func TestStructuredExtractor_ClientErrorNotRetried(t *testing.T) {
	srv, calls := newChatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		return http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`
	})

	_, err := newTestExtractor(srv.URL, 3).Extract(context.Background(), "x")
	if !errors.Is(err, ErrRemoteCall) {
		t.Fatalf("expected ErrRemoteCall, got %v", err)
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("expected 4xx to stop retries after one call, got %d", atomic.LoadInt32(calls))
	}
}

func TestStructuredExtractor_RetriesWhenConfigured(t *testing.T) {
	srv, calls := newChatServer(t, func(openai.ChatCompletionRequest) (int, string) {
		return http.StatusServiceUnavailable, `{"error":{"message":"busy","type":"server_error"}}`
	})

	_, err := newTestExtractor(srv.URL, 1).Extract(context.Background(), "x")
	if !errors.Is(err, ErrRemoteCall) {
		t.Fatalf("expected ErrRemoteCall, got %v", err)
	}
	if atomic.LoadInt32(calls) != 2 {
		t.Errorf("expected 2 attempts with one retry, got %d", atomic.LoadInt32(calls))
	}
}

func TestStructuredExtractor_NotConfigured(t *testing.T) {
	ex := NewStructuredExtractor(config.OpenAI{}, nil, logger.Discard())
	_, err := ex.Extract(context.Background(), "x")
	if !errors.Is(err, ErrRemoteCall) {
		t.Fatalf("expected ErrRemoteCall, got %v", err)
	}
}

type fakeChat struct {
	resp openai.ChatCompletionResponse
	err  error
}

func (f fakeChat) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f.resp, f.err
}

func TestStructuredExtractor_NoChoices(t *testing.T) {
	ex := NewStructuredExtractor(config.OpenAI{APIKey: "k"}, fakeChat{}, logger.Discard())
	_, err := ex.Extract(context.Background(), "x")
	if !errors.Is(err, ErrResponseParse) {
		t.Fatalf("expected ErrResponseParse, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"here you go:\n```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
		{`{"a":"brace } inside"} trailing`, `{"a":"brace } inside"}`},
		{`{"a":1`, ""},
		{"no json", ""},
	}
	for _, tt := range tests {
		if got := extractJSON(tt.in); got != tt.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
