package content

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/npratt/pullr/internal/pull"
	"github.com/npratt/pullr/internal/testutil"
)

var _ pull.Reloader = (*Document)(nil)

// stubSource returns queued results in order.
type stubSource struct {
	mu      sync.Mutex
	results []string
	errs    []error
	i       int
}

func (s *stubSource) Load(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.i
	s.i++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if err != nil {
		return "", err
	}
	return s.results[i], nil
}

func (s *stubSource) Name() string { return "stub" }

func TestDocument_Reload(t *testing.T) {
	src := &stubSource{results: []string{"first\r\nline\n", "second"}}
	doc := NewDocument(src)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc.now = func() time.Time { return fixed }

	if doc.Text() != "" || doc.Loads() != 0 {
		t.Fatal("new document should be empty")
	}

	if err := doc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if doc.Text() != "first\nline" {
		t.Errorf("Text() = %q, want normalized text", doc.Text())
	}
	if !doc.LoadedAt().Equal(fixed) {
		t.Errorf("LoadedAt() = %v", doc.LoadedAt())
	}

	if err := doc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if doc.Text() != "second" || doc.Loads() != 2 {
		t.Errorf("Text() = %q, Loads() = %d", doc.Text(), doc.Loads())
	}
	if doc.Name() != "stub" {
		t.Errorf("Name() = %q", doc.Name())
	}
}

func TestDocument_FailedReloadKeepsText(t *testing.T) {
	cause := errors.New("disk gone")
	src := &stubSource{results: []string{"kept", ""}, errs: []error{nil, cause}}
	doc := NewDocument(src)

	_ = doc.Reload(context.Background())
	err := doc.Reload(context.Background())

	if !errors.Is(err, cause) {
		t.Errorf("Reload() error = %v, want %v", err, cause)
	}
	if doc.Text() != "kept" {
		t.Errorf("Text() = %q, previous text should be kept", doc.Text())
	}
	if !errors.Is(doc.Err(), cause) {
		t.Errorf("Err() = %v", doc.Err())
	}
	if doc.Loads() != 1 {
		t.Errorf("Loads() = %d, want 1", doc.Loads())
	}
}

func TestDocument_ReloadsFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "status.txt", "v1\tready\n")

	doc := NewDocument(NewFileSource(path))
	if err := doc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "v1    ready" {
		t.Errorf("Text() = %q, tabs should be expanded", doc.Text())
	}

	testutil.WriteFile(t, dir, "status.txt", "v2\n")
	if err := doc.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "v2" {
		t.Errorf("Text() = %q after change", doc.Text())
	}
}

func TestDocument_ConcurrentReadDuringReload(t *testing.T) {
	src := &stubSource{results: make([]string, 50)}
	for i := range src.results {
		src.results[i] = "text"
	}
	doc := NewDocument(src)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = doc.Reload(context.Background())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = doc.Text()
			_ = doc.LoadedAt()
		}
	}()
	wg.Wait()

	if doc.Loads() != 50 {
		t.Errorf("Loads() = %d, want 50", doc.Loads())
	}
}
