package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/trimdeck/trimdeck-agent/internal/library"
	"github.com/trimdeck/trimdeck-agent/internal/playback"
	"github.com/trimdeck/trimdeck-agent/internal/sequence"
)

const testToken = "test-token-12345"

func newTestConfig() ServerConfig {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return ServerConfig{
		Sequence:       sequence.NewManager(nil),
		Queue:          playback.NewManager(nil),
		LibraryService: &fakeService{},
		Repository:     &fakeRepo{},
		Logger:         logger,
		StartTime:      time.Now().Add(-10 * time.Second),
		DeviceID:       "test-device",
		FrameRate:      30.0,
		Mu:             &sync.Mutex{},
	}
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeJSONBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	return body
}

func TestHealthHandler_NoAuth(t *testing.T) {
	router := NewRouter(newTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	body := decodeJSONBody(t, rr)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["device_id"] != "test-device" {
		t.Errorf("device_id = %v, want test-device", body["device_id"])
	}
}

func TestStatusHandler(t *testing.T) {
	cfg := newTestConfig()
	cfg.Sequence.Add("Intro", 0, 1000, "/v/a.mp4")
	cfg.Queue.Add(&playback.Item{Path: "/v/a.mp4", Title: "A"})
	router := NewRouter(cfg)

	rr := doRequest(t, router, http.MethodGet, "/status", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	body := decodeJSONBody(t, rr)
	if body["queue_state"] != "ready" {
		t.Errorf("queue_state = %v, want ready", body["queue_state"])
	}
	if body["clip_count"] != float64(1) {
		t.Errorf("clip_count = %v, want 1", body["clip_count"])
	}
}

func TestSequenceEndpoints(t *testing.T) {
	cfg := newTestConfig()
	router := NewRouter(cfg)

	t.Run("add clip", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/sequence/clips", AddClipRequest{
			StartMs: 0, EndMs: 2000, SourcePath: "/v/a.mp4",
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("status code = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
		}
		body := decodeJSONBody(t, rr)
		if body["name"] != "Clip1" {
			t.Errorf("name = %v, want Clip1", body["name"])
		}
	})

	t.Run("add clip validation error verbatim", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/sequence/clips", AddClipRequest{
			StartMs: 2000, EndMs: 1000, SourcePath: "/v/a.mp4",
		})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
		}
		body := decodeJSONBody(t, rr)
		if body["error"] != "end time must exceed start time" {
			t.Errorf("error = %q, want %q", body["error"], "end time must exceed start time")
		}
	})

	t.Run("add clip without source", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/sequence/clips", AddClipRequest{
			StartMs: 0, EndMs: 1000,
		})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
		}
		body := decodeJSONBody(t, rr)
		if body["error"] != "cannot determine source file" {
			t.Errorf("error = %q, want %q", body["error"], "cannot determine source file")
		}
	})

	t.Run("get sequence", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodGet, "/sequence/", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
		}
		body := decodeJSONBody(t, rr)
		if body["count"] != float64(1) {
			t.Errorf("count = %v, want 1", body["count"])
		}
	})

	t.Run("move clip invalid direction", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/sequence/clips/0/move", MoveClipRequest{Direction: "sideways"})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("move clip at boundary", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/sequence/clips/0/move", MoveClipRequest{Direction: "up"})
		if rr.Code != http.StatusOK {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
		}
		body := decodeJSONBody(t, rr)
		if body["moved"] != false {
			t.Errorf("moved = %v, want false", body["moved"])
		}
	})

	t.Run("select clip", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/sequence/clips/0/select", SelectClipRequest{Selected: true})
		if rr.Code != http.StatusOK {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
		}
		body := decodeJSONBody(t, rr)
		if body["selected_count"] != float64(1) {
			t.Errorf("selected_count = %v, want 1", body["selected_count"])
		}
	})

	t.Run("set title", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPut, "/sequence/clips/0/title", SetTitleRequest{Title: "Opening"})
		if rr.Code != http.StatusOK {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
		}
		body := decodeJSONBody(t, rr)
		if body["name"] != "Opening" {
			t.Errorf("name = %v, want Opening", body["name"])
		}
	})

	t.Run("clip not found", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodDelete, "/sequence/clips/99", nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
		}
	})

	t.Run("remove selected", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodDelete, "/sequence/selected", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
		}
		body := decodeJSONBody(t, rr)
		if body["removed"] != float64(1) {
			t.Errorf("removed = %v, want 1", body["removed"])
		}
	})

	t.Run("clear", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/sequence/clear", nil)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNoContent)
		}
	})
}

func TestQueueEndpoints(t *testing.T) {
	cfg := newTestConfig()
	router := NewRouter(cfg)

	t.Run("add items", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/queue/items", AddQueueItemsRequest{
			Items: []QueueItemRequest{
				{Path: "/v/a.mp4", Title: "A"},
				{Path: "/v/b.mp4", Title: "B"},
				{Path: "/v/c.mp4", Title: "C"},
			},
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("status code = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
		}
		body := decodeJSONBody(t, rr)
		if body["current_index"] != float64(0) {
			t.Errorf("current_index = %v, want 0", body["current_index"])
		}
		if body["state"] != "ready" {
			t.Errorf("state = %v, want ready", body["state"])
		}
	})

	t.Run("add items missing path", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/queue/items", AddQueueItemsRequest{
			Items: []QueueItemRequest{{Title: "no path"}},
		})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("set mode invalid", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPut, "/queue/mode", SetModeRequest{Mode: "backwards"})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("set mode repeat_all", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPut, "/queue/mode", SetModeRequest{Mode: "repeat_all"})
		if rr.Code != http.StatusOK {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
		}
		body := decodeJSONBody(t, rr)
		if body["mode"] != "repeat_all" {
			t.Errorf("mode = %v, want repeat_all", body["mode"])
		}
	})

	t.Run("next", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/queue/next", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
		}
		body := decodeJSONBody(t, rr)
		if body["current_index"] != float64(1) {
			t.Errorf("current_index = %v, want 1", body["current_index"])
		}
	})

	t.Run("play pause stop", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/queue/play", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("play status code = %d, want %d", rr.Code, http.StatusOK)
		}
		if body := decodeJSONBody(t, rr); body["state"] != "playing" {
			t.Errorf("state = %v, want playing", body["state"])
		}

		rr = doRequest(t, router, http.MethodPost, "/queue/pause", nil)
		if body := decodeJSONBody(t, rr); body["state"] != "paused" {
			t.Errorf("state = %v, want paused", body["state"])
		}

		// Pausing again conflicts: only a playing queue can pause.
		rr = doRequest(t, router, http.MethodPost, "/queue/pause", nil)
		if rr.Code != http.StatusConflict {
			t.Errorf("second pause status code = %d, want %d", rr.Code, http.StatusConflict)
		}

		rr = doRequest(t, router, http.MethodPost, "/queue/stop", nil)
		if body := decodeJSONBody(t, rr); body["state"] != "ready" {
			t.Errorf("state = %v, want ready", body["state"])
		}
	})

	t.Run("complete advances", func(t *testing.T) {
		before := doRequest(t, router, http.MethodGet, "/queue/", nil)
		beforeIdx := decodeJSONBody(t, before)["current_index"].(float64)

		rr := doRequest(t, router, http.MethodPost, "/queue/complete", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
		}
		afterIdx := decodeJSONBody(t, rr)["current_index"].(float64)
		if afterIdx == beforeIdx {
			t.Errorf("current_index unchanged after complete in repeat_all mode")
		}
	})

	t.Run("remove item", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodDelete, "/queue/items", RemoveQueueItemRequest{Path: "/v/b.mp4"})
		if rr.Code != http.StatusOK {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
		}

		rr = doRequest(t, router, http.MethodDelete, "/queue/items", RemoveQueueItemRequest{Path: "/v/zzz.mp4"})
		if rr.Code != http.StatusNotFound {
			t.Fatalf("status code = %d, want %d for absent item", rr.Code, http.StatusNotFound)
		}
	})

	t.Run("set current out of range", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPut, "/queue/current", SetCurrentRequest{Index: 42})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("clear then next conflicts", func(t *testing.T) {
		rr := doRequest(t, router, http.MethodPost, "/queue/clear", nil)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("clear status code = %d, want %d", rr.Code, http.StatusNoContent)
		}

		rr = doRequest(t, router, http.MethodPost, "/queue/next", nil)
		if rr.Code != http.StatusConflict {
			t.Fatalf("next on empty queue status code = %d, want %d", rr.Code, http.StatusConflict)
		}

		rr = doRequest(t, router, http.MethodGet, "/queue/", nil)
		body := decodeJSONBody(t, rr)
		if body["current_index"] != float64(-1) {
			t.Errorf("current_index = %v, want -1 on empty queue", body["current_index"])
		}
		if body["state"] != "empty" {
			t.Errorf("state = %v, want empty", body["state"])
		}
	})
}

type fakeService struct{}

func (f *fakeService) AddFolder(ctx context.Context, path, displayName string) (*library.Source, error) {
	return nil, nil
}

func (f *fakeService) RemoveSource(ctx context.Context, id string) error {
	return nil
}

func (f *fakeService) GetSources(ctx context.Context) ([]*library.Source, error) {
	return []*library.Source{}, nil
}

func (f *fakeService) GetSource(ctx context.Context, id string) (*library.Source, error) {
	return nil, nil
}

func (f *fakeService) GetFiles(ctx context.Context, sourceID string) ([]*library.File, error) {
	return []*library.File{}, nil
}

func (f *fakeService) GetFile(ctx context.Context, id string) (*library.File, error) {
	return nil, nil
}

func (f *fakeService) CountFiles(ctx context.Context) (int, error) {
	return 0, nil
}

func (f *fakeService) ScanSource(ctx context.Context, sourceID string) (*library.Job, error) {
	return nil, nil
}

func (f *fakeService) ExecuteScan(ctx context.Context, jobID, sourceID, path string) error {
	return nil
}

type fakeRepo struct{}

func (f *fakeRepo) CreateSource(ctx context.Context, source *library.Source) error {
	return nil
}

func (f *fakeRepo) GetSource(ctx context.Context, id string) (*library.Source, error) {
	return nil, nil
}

func (f *fakeRepo) GetSourceByPath(ctx context.Context, path string) (*library.Source, error) {
	return nil, nil
}

func (f *fakeRepo) ListSources(ctx context.Context) ([]*library.Source, error) {
	return []*library.Source{}, nil
}

func (f *fakeRepo) DeleteSource(ctx context.Context, id string) error {
	return nil
}

func (f *fakeRepo) UpdateSourcePresent(ctx context.Context, id string, present bool) error {
	return nil
}

func (f *fakeRepo) GetFile(ctx context.Context, id string) (*library.File, error) {
	return nil, nil
}

func (f *fakeRepo) ListFiles(ctx context.Context) ([]*library.File, error) {
	return []*library.File{}, nil
}

func (f *fakeRepo) GetFilesBySource(ctx context.Context, sourceID string) ([]*library.File, error) {
	return []*library.File{}, nil
}

func (f *fakeRepo) DeleteFilesBySource(ctx context.Context, sourceID string) error {
	return nil
}

func (f *fakeRepo) UpsertFile(ctx context.Context, file *library.File) error {
	return nil
}

func (f *fakeRepo) CountFiles(ctx context.Context) (int, error) {
	return 0, nil
}

func (f *fakeRepo) CreateJob(ctx context.Context, job *library.Job) error {
	return nil
}

func (f *fakeRepo) GetJob(ctx context.Context, id string) (*library.Job, error) {
	return nil, nil
}

func (f *fakeRepo) ListJobs(ctx context.Context, limit int) ([]*library.Job, error) {
	return []*library.Job{}, nil
}

func (f *fakeRepo) ListPendingJobs(ctx context.Context) ([]*library.Job, error) {
	return []*library.Job{}, nil
}

func (f *fakeRepo) UpdateJobStatus(ctx context.Context, id, status, errorMsg string) error {
	return nil
}

func (f *fakeRepo) UpdateJobProgress(ctx context.Context, id string, progress int) error {
	return nil
}

func (f *fakeRepo) GetConfig(ctx context.Context, key string) (string, error) {
	if key == "auth_token" {
		return testToken, nil
	}
	return "", nil
}

func (f *fakeRepo) SetConfig(ctx context.Context, key, value string) error {
	return nil
}
