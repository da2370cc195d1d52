package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/postsphere/internal/dashboard"
	"github.com/jonathan/postsphere/internal/generation"
	"github.com/jonathan/postsphere/internal/llm"
	"github.com/jonathan/postsphere/internal/platform"
	"github.com/jonathan/postsphere/internal/server/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLLMClient implements llm.Client for testing
type mockLLMClient struct {
	generate func(prompt string) (string, error)
}

func (m *mockLLMClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	return m.generate(prompt)
}

func (m *mockLLMClient) GetModel(_ llm.ModelTier) string { return "mock-model" }

func (m *mockLLMClient) Close() error { return nil }

// failFor returns a client that fails for prompts naming any of the given platforms.
func failFor(names ...string) *mockLLMClient {
	return &mockLLMClient{generate: func(prompt string) (string, error) {
		for _, n := range names {
			if strings.Contains(prompt, "specifically for "+n+".") {
				return "", errors.New("upstream unavailable")
			}
		}
		return "Hello world\n\n#go", nil
	}}
}

func newTestServer(t *testing.T, client llm.Client, rl *ratelimit.Config) *Server {
	t.Helper()
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	s, err := New(Config{
		Generator: generation.NewGenerator(client, generation.Options{}),
		Publisher: dashboard.NewSimulatedPublisher(0, nil),
		RateLimit: rl,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_RequiresGenerator(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	w := do(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID_PropagatesValidID(t *testing.T) {
	s := newTestServer(t, failFor(), nil)
	id := "6f1c7a4e-9b1d-4c55-8f0e-2a7d5b3c9e10"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", id)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, id, w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	w := do(t, s, http.MethodOptions, "/generate", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestPlatformsEndpoint(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	w := do(t, s, http.MethodGet, "/platforms", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Platforms []platform.Rules `json:"platforms"`
	}](t, w)
	require.Len(t, resp.Platforms, 3)
	assert.Equal(t, platform.Twitter, resp.Platforms[0].ID)
	assert.Equal(t, 280, resp.Platforms[0].MaxLength)
}

func TestNormalizeEndpoint(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	tests := []struct {
		name     string
		platform platform.ID
		want     string
	}{
		{"twitter keeps first section", platform.Twitter, "Intro"},
		{"instagram double spaced", platform.Instagram, "Intro\n\nBody\n\n#tag"},
		{"facebook single spaced", platform.Facebook, "Intro\nBody\n#tag"},
		{"unknown passes through", "mastodon", "Intro\n\nBody\n\n\n#tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/normalize", map[string]any{
				"text":     "Intro\n\nBody\n\n\n#tag",
				"platform": tt.platform,
			})
			require.Equal(t, http.StatusOK, w.Code)

			resp := decode[normalizeResponse](t, w)
			assert.Equal(t, tt.want, resp.Post)
			assert.Equal(t, tt.platform, resp.Report.Platform)
		})
	}
}

func TestNormalizeEndpoint_MissingPlatform(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	w := do(t, s, http.MethodPost, "/normalize", map[string]any{"text": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "Platform")
}

func TestNormalizeEndpoint_MalformedBody(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	req := httptest.NewRequest(http.MethodPost, "/normalize", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndpoint_AllSucceed(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	w := do(t, s, http.MethodPost, "/generate", map[string]any{
		"content":   "launch day",
		"platforms": []string{"twitter", "facebook"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[generateResponse](t, w)
	assert.Equal(t, map[platform.ID]string{
		platform.Twitter:  "Hello world",
		platform.Facebook: "Hello world\n#go",
	}, resp.Contents)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, 1, resp.Variants[platform.Facebook].Report.Hashtags)
}

func TestGenerateEndpoint_PartialFailure(t *testing.T) {
	s := newTestServer(t, failFor("Facebook"), nil)

	w := do(t, s, http.MethodPost, "/generate", map[string]any{
		"platforms": []string{"twitter", "facebook"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[generateResponse](t, w)
	assert.Contains(t, resp.Contents, platform.Twitter)
	assert.NotContains(t, resp.Contents, platform.Facebook)
	assert.Equal(t, "Failed to generate content", resp.Errors[platform.Facebook])
}

func TestGenerateEndpoint_AllFail(t *testing.T) {
	s := newTestServer(t, failFor("Twitter (X)", "Instagram"), nil)

	w := do(t, s, http.MethodPost, "/generate", map[string]any{
		"platforms": []string{"twitter", "instagram"},
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "Failed to generate content", body["error"])
	assert.NotContains(t, w.Body.String(), "upstream unavailable")
}

func TestGenerateEndpoint_UnknownPlatformOnly(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	w := do(t, s, http.MethodPost, "/generate", map[string]any{
		"platforms": []string{"myspace"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndpoint_Validation(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"no platforms", map[string]any{"content": "hi"}},
		{"empty platforms", map[string]any{"platforms": []string{}}},
		{"content too long", map[string]any{
			"content":   strings.Repeat("a", 281),
			"platforms": []string{"twitter"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

type sseEvent struct {
	name string
	data string
}

func readEvents(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	var cur sseEvent
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			cur.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			cur.data = strings.TrimPrefix(line, "data: ")
		case line == "":
			events = append(events, cur)
			cur = sseEvent{}
		}
	}
	require.NoError(t, sc.Err())
	return events
}

func TestGenerateStreamEndpoint(t *testing.T) {
	s := newTestServer(t, failFor("Instagram"), nil)

	w := do(t, s, http.MethodPost, "/generate/stream", map[string]any{
		"content":   "launch",
		"platforms": []string{"twitter", "instagram"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	events := readEvents(t, w.Body.String())
	require.Len(t, events, 3)

	counts := map[string]int{}
	for _, e := range events[:2] {
		counts[e.name]++
		switch e.name {
		case "variant":
			var v generation.Variant
			require.NoError(t, json.Unmarshal([]byte(e.data), &v))
			assert.Equal(t, platform.Twitter, v.Platform)
			assert.Equal(t, "Hello world", v.Content)
		case "error":
			assert.Contains(t, e.data, `"platform":"instagram"`)
		}
	}
	assert.Equal(t, map[string]int{"variant": 1, "error": 1}, counts)

	last := events[2]
	assert.Equal(t, "complete", last.name)
	assert.JSONEq(t, `{"succeeded":1,"failed":1}`, last.data)
}

func mustState(t *testing.T, setup func(vm *dashboard.ViewModel)) json.RawMessage {
	t.Helper()
	vm := dashboard.New()
	setup(vm)
	data, err := vm.Marshal()
	require.NoError(t, err)
	return data
}

func TestApplyEndpoint_FromEmptyState(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	w := do(t, s, http.MethodPost, "/dashboard/apply", map[string]any{
		"action": map[string]any{"type": "select_platform", "platform": "instagram"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[stateResponse](t, w)
	assert.Equal(t, []platform.ID{platform.Instagram}, resp.State.SelectedPlatforms)
	assert.Equal(t, 1, resp.State.Version)
}

func TestApplyEndpoint_ChainsState(t *testing.T) {
	s := newTestServer(t, failFor(), nil)
	state := mustState(t, func(vm *dashboard.ViewModel) {
		require.NoError(t, vm.SelectPlatform(platform.Twitter))
	})

	w := do(t, s, http.MethodPost, "/dashboard/apply", map[string]any{
		"state":  state,
		"action": map[string]any{"type": "set_base_content", "text": "hello"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[stateResponse](t, w)
	assert.Equal(t, "hello", resp.State.BaseContent)
	assert.Equal(t, []platform.ID{platform.Twitter}, resp.State.SelectedPlatforms)
}

func TestApplyEndpoint_ReceiveBatch(t *testing.T) {
	s := newTestServer(t, failFor(), nil)
	state := mustState(t, func(vm *dashboard.ViewModel) {
		require.NoError(t, vm.SelectPlatform(platform.Twitter))
		require.NoError(t, vm.BeginGeneration())
	})

	w := do(t, s, http.MethodPost, "/dashboard/apply", map[string]any{
		"state": state,
		"action": map[string]any{
			"type":     "receive_batch",
			"contents": map[string]string{"twitter": "hi"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[stateResponse](t, w)
	assert.Equal(t, dashboard.StatusIdle, resp.State.Status)
	assert.Equal(t, map[platform.ID]string{platform.Twitter: "hi"}, resp.State.Generated)
}

func TestApplyEndpoint_Errors(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	tests := []struct {
		name string
		body map[string]any
		code int
	}{
		{
			name: "missing action type",
			body: map[string]any{"action": map[string]any{}},
			code: http.StatusBadRequest,
		},
		{
			name: "unknown action",
			body: map[string]any{"action": map[string]any{"type": "explode"}},
			code: http.StatusBadRequest,
		},
		{
			name: "unknown platform",
			body: map[string]any{"action": map[string]any{"type": "select_platform", "platform": "myspace"}},
			code: http.StatusBadRequest,
		},
		{
			name: "generation without platforms",
			body: map[string]any{"action": map[string]any{"type": "begin_generation"}},
			code: http.StatusBadRequest,
		},
		{
			name: "batch with unknown platform",
			body: map[string]any{"action": map[string]any{
				"type":     "receive_batch",
				"contents": map[string]string{"twitter": "hi", "myspace": "x"},
			}},
			code: http.StatusBadRequest,
		},
		{
			name: "invalid state",
			body: map[string]any{
				"state":  map[string]any{"base_content": 7},
				"action": map[string]any{"type": "detach_media"},
			},
			code: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/dashboard/apply", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestScheduleEndpoint(t *testing.T) {
	s := newTestServer(t, failFor(), nil)
	when := time.Date(2026, 11, 1, 9, 30, 0, 0, time.UTC)
	state := mustState(t, func(vm *dashboard.ViewModel) {
		require.NoError(t, vm.SelectPlatform(platform.Facebook))
		vm.SetScheduleDate(when)
	})

	w := do(t, s, http.MethodPost, "/schedule", map[string]any{"state": state})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[stateResponse](t, w)
	require.NotNil(t, resp.Receipt)
	assert.NotEmpty(t, resp.Receipt.ID)
	require.NotNil(t, resp.Receipt.ScheduledFor)
	assert.True(t, when.Equal(*resp.Receipt.ScheduledFor))
	assert.Equal(t, dashboard.StatusScheduled, resp.State.Status)
}

func TestScheduleEndpoint_RequiresDate(t *testing.T) {
	s := newTestServer(t, failFor(), nil)
	state := mustState(t, func(vm *dashboard.ViewModel) {
		require.NoError(t, vm.SelectPlatform(platform.Facebook))
	})

	w := do(t, s, http.MethodPost, "/schedule", map[string]any{"state": state})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishEndpoint(t *testing.T) {
	s := newTestServer(t, failFor(), nil)
	state := mustState(t, func(vm *dashboard.ViewModel) {
		require.NoError(t, vm.SelectPlatform(platform.Twitter))
		vm.SetBaseContent("ship it")
		require.NoError(t, vm.ReceiveGeneratedContent(platform.Twitter, "ship it"))
	})

	w := do(t, s, http.MethodPost, "/publish", map[string]any{"state": state})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[stateResponse](t, w)
	require.NotNil(t, resp.Receipt)
	assert.Equal(t, []platform.ID{platform.Twitter}, resp.Receipt.Platforms)
	assert.Equal(t, dashboard.StatusPublished, resp.State.Status)
	assert.Empty(t, resp.State.BaseContent)
	assert.Empty(t, resp.State.SelectedPlatforms)
	assert.Empty(t, resp.State.Generated)
}

func TestPublishEndpoint_MissingState(t *testing.T) {
	s := newTestServer(t, failFor(), nil)

	w := do(t, s, http.MethodPost, "/publish", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, failFor(), &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
	})

	first := do(t, s, http.MethodGet, "/platforms", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := do(t, s, http.MethodGet, "/platforms", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, second)["error"])

	// health is never limited
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)
}
