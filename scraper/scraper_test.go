package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagehound/collector"
	"imagehound/downloader"
	"imagehound/models"
)

var jpegPayload = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01}, []byte("pixels")...)

// pollSession replays one batch of URLs per poll; the last batch repeats,
// mirroring a results page that has stopped yielding anything new.
type pollSession struct {
	batches [][]string
	calls   int
	scrolls int
}

func (p *pollSession) Evaluate(js string, res interface{}) error {
	batch := p.batches[len(p.batches)-1]
	if p.calls < len(p.batches) {
		batch = p.batches[p.calls]
	}
	p.calls++
	out, ok := res.(*[]string)
	if !ok {
		return fmt.Errorf("unexpected result type %T", res)
	}
	*out = append([]string(nil), batch...)
	return nil
}

func (p *pollSession) PageHTML() (string, error) {
	return "<html><body></body></html>", nil
}

func (p *pollSession) ScrollToBottom() error {
	p.scrolls++
	return nil
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(jpegPayload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fastPipeline() (*collector.Collector, *downloader.Downloader) {
	col := &collector.Collector{MaxEmptyAttempts: 3, ScrollSettle: time.Millisecond}
	dl := downloader.New(downloader.Options{
		FetchTimeout: 5 * time.Second,
		RateInterval: time.Millisecond,
	})
	return col, dl
}

func TestExecuteDownloadsRequestedCount(t *testing.T) {
	srv := imageServer(t)
	dir := t.TempDir()

	urls := make([]string, 5)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/img/%d.jpg", srv.URL, i)
	}
	session := &pollSession{batches: [][]string{urls}}
	col, dl := fastPipeline()

	summary, err := execute(context.Background(), session, col, dl, 5, dir, "image")
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Requested)
	assert.Equal(t, 5, summary.Found)
	assert.Equal(t, 5, summary.Downloaded)
	assert.Equal(t, 0, summary.Failed)

	for i := 1; i <= 5; i++ {
		path := filepath.Join(dir, fmt.Sprintf("image_%03d.jpg", i))
		data, err := os.ReadFile(path)
		require.NoError(t, err, "expected %s on disk", path)
		assert.Equal(t, jpegPayload, data)
	}
}

func TestExecutePartialResultIsNotAnError(t *testing.T) {
	srv := imageServer(t)
	dir := t.TempDir()

	session := &pollSession{batches: [][]string{{
		srv.URL + "/img/a.jpg",
		srv.URL + "/img/b.jpg",
	}}}
	col, dl := fastPipeline()

	summary, err := execute(context.Background(), session, col, dl, 10, dir, "image")
	require.NoError(t, err)

	assert.Equal(t, 10, summary.Requested)
	assert.Equal(t, 2, summary.Found)
	assert.Equal(t, 2, summary.Downloaded)
	assert.Greater(t, session.scrolls, 0, "collector should have scrolled looking for more")
}

func TestExecuteFailedDownloadKeepsNumbering(t *testing.T) {
	srv := imageServer(t)
	dir := t.TempDir()

	session := &pollSession{batches: [][]string{{
		srv.URL + "/img/1.jpg",
		srv.URL + "/img/2.jpg",
		srv.URL + "/missing/3.jpg",
		srv.URL + "/img/4.jpg",
	}}}
	col, dl := fastPipeline()

	summary, err := execute(context.Background(), session, col, dl, 4, dir, "image")
	require.NoError(t, err, "a single failed download must not abort the run")

	assert.Equal(t, 3, summary.Downloaded)
	assert.Equal(t, 1, summary.Failed)

	var failed models.DownloadOutcome
	for _, o := range summary.Outcomes {
		if o.Status == models.DownloadFailed {
			failed = o
		}
	}
	assert.Equal(t, 3, failed.Candidate.SequenceIndex)
	assert.Contains(t, failed.FailureReason, "404")

	// Sequence indexes are fixed at collection time; the failure leaves a gap
	// on disk rather than renumbering later files.
	assert.NoFileExists(t, filepath.Join(dir, "image_003.jpg"))
	assert.FileExists(t, filepath.Join(dir, "image_004.jpg"))
}

func TestExecuteNoCandidatesIsTimeout(t *testing.T) {
	dir := t.TempDir()
	session := &pollSession{batches: [][]string{{}}}
	col, dl := fastPipeline()

	summary, err := execute(context.Background(), session, col, dl, 5, dir, "image")
	require.Error(t, err)
	assert.Nil(t, summary)

	toErr, ok := collector.IsTimeout(err)
	require.True(t, ok)
	assert.Equal(t, 3, toErr.Attempts)
}

func TestRunRejectsMissingReverseImageBeforeBrowser(t *testing.T) {
	req := models.SearchRequest{
		Kind:      models.ReverseSearch,
		ImagePath: filepath.Join(t.TempDir(), "does-not-exist.jpg"),
	}
	cfg := &models.RunConfig{OutputFolder: t.TempDir(), RequestedCount: 1, Headless: true}

	summary, err := Run(context.Background(), req, cfg)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.Contains(t, err.Error(), "not found")
}
