package inspector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newInspector() *Inspector {
	return New(Config{UserAgent: "page-analyzer-test", Timeout: 5 * time.Second})
}

func TestInspectExtractsAllFields(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head>
			<title>Example Domain</title>
			<meta name="description" content="An example page.">
		</head><body>
			<h1>Welcome</h1>
			<h1>Second heading is ignored</h1>
		</body></html>`))
	}))
	defer srv.Close()

	snap, err := newInspector().Inspect(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, 200, snap.StatusCode)
	require.Equal(t, "Welcome", snap.H1)
	require.Equal(t, "Example Domain", snap.Title)
	require.Equal(t, "An example page.", snap.Description)
}

func TestInspectMissingElementsDegradeToEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Hi</title></head><body><p>no headings here</p></body></html>`))
	}))
	defer srv.Close()

	snap, err := newInspector().Inspect(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, 200, snap.StatusCode)
	require.Equal(t, "", snap.H1)
	require.Equal(t, "Hi", snap.Title)
	require.Equal(t, "", snap.Description)
}

func TestInspectRecordsNonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<html><head><title>Gone</title></head><body><h1>404</h1></body></html>`))
	}))
	defer srv.Close()

	snap, err := newInspector().Inspect(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, snap.StatusCode)
	require.Equal(t, "404", snap.H1)
	require.Equal(t, "Gone", snap.Title)
}

func TestInspectConcurrent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Shared</title></head><body><h1>Up</h1></body></html>`))
	}))
	defer srv.Close()

	// Clones share one HTTP backend, so simultaneous checks must not trip
	// the race detector or cross-contaminate snapshots.
	insp := newInspector()
	var wg sync.WaitGroup
	errs := make([]error, 4)
	snaps := make([]Snapshot, 4)
	for n := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snaps[n], errs[n] = insp.Inspect(context.Background(), srv.URL)
		}()
	}
	wg.Wait()

	for n := range errs {
		require.NoError(t, errs[n])
		require.Equal(t, 200, snaps[n].StatusCode)
		require.Equal(t, "Up", snaps[n].H1)
		require.Equal(t, "Shared", snaps[n].Title)
	}
}

func TestInspectUnreachableHost(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL
	srv.Close()

	_, err := newInspector().Inspect(context.Background(), target)
	require.ErrorIs(t, err, ErrUnreachable)
}

func TestInspectCanceledContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newInspector().Inspect(ctx, srv.URL)
	require.ErrorIs(t, err, ErrUnreachable)
}
