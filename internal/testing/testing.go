// package testing contains shared testing utilities
package testing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// SWAPIBase is replaced by the server url in fixture string values,
// so records can reference each other ("$SWAPI/planets/1/").
const SWAPIBase = "$SWAPI"

// SWAPIServer serves fixture records in the paginated SWAPI envelope.
// Resources are keyed by path segment ("planets", "people", "vehicles").
type SWAPIServer struct {
	*httptest.Server

	PageSize  int
	resources map[string][]map[string]any
	requests  atomic.Int64

	mu   sync.Mutex
	fail map[string]int
}

// NewSWAPIServer starts a fixture server that is closed when the test ends.
func NewSWAPIServer(t *testing.T, pageSize int, resources map[string][]map[string]any) *SWAPIServer {
	t.Helper()

	s := &SWAPIServer{PageSize: pageSize, resources: resources, fail: map[string]int{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)

	for name, records := range resources {
		for i, record := range records {
			for k, v := range record {
				switch v := v.(type) {
				case string:
					record[k] = strings.ReplaceAll(v, SWAPIBase, s.URL)
				case []string:
					for j := range v {
						v[j] = strings.ReplaceAll(v[j], SWAPIBase, s.URL)
					}
				}
			}
			if _, ok := record["url"]; !ok {
				record["url"] = s.RecordURL(name, i+1)
			}
		}
	}
	return s
}

// RecordURL is the canonical url of the n-th (1-based) record of a resource.
func (s *SWAPIServer) RecordURL(resource string, n int) string {
	return fmt.Sprintf("%s/%s/%d/", s.URL, resource, n)
}

// FailWith makes every request for resource answer with status.
func (s *SWAPIServer) FailWith(resource string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[resource] = status
}

// Requests reports how many requests the server has answered.
func (s *SWAPIServer) Requests() int64 {
	return s.requests.Load()
}

func (s *SWAPIServer) serve(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)

	resource := strings.Trim(r.URL.Path, "/")

	s.mu.Lock()
	status, failing := s.fail[resource]
	s.mu.Unlock()
	if failing {
		http.Error(w, `{"detail": "unavailable"}`, status)
		return
	}

	records, ok := s.resources[resource]
	if !ok {
		http.Error(w, `{"detail": "Not found"}`, http.StatusNotFound)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, `{"detail": "Not found"}`, http.StatusNotFound)
			return
		}
		page = n
	}

	start := (page - 1) * s.PageSize
	if start > 0 && start >= len(records) {
		http.Error(w, `{"detail": "Not found"}`, http.StatusNotFound)
		return
	}
	end := min(start+s.PageSize, len(records))

	var next *string
	if end < len(records) {
		u := fmt.Sprintf("%s/%s/?page=%d", s.URL, resource, page+1)
		next = &u
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":    len(records),
		"next":     next,
		"previous": nil,
		"results":  records[start:end],
	})
}
