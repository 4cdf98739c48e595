package models

import "fmt"

// SearchKind selects which of the two search entry points a run uses.
type SearchKind string

const (
	// TextSearch queries Yandex Images with a typed search term.
	TextSearch SearchKind = "text"
	// ReverseSearch uploads a local image and collects visually similar results.
	ReverseSearch SearchKind = "reverse"
)

// SearchRequest describes one scraping run. Exactly one of Term or ImagePath
// is meaningful, selected by Kind.
type SearchRequest struct {
	Kind      SearchKind
	Term      string // search query, TextSearch only
	ImagePath string // local image file, ReverseSearch only
}

// Prefix returns the file name prefix used for images saved by this request.
func (r SearchRequest) Prefix() string {
	if r.Kind == ReverseSearch {
		return "similar"
	}
	return "image"
}

// RunConfig is the immutable configuration resolved before a run starts.
// Core components receive it by pointer and never mutate it.
type RunConfig struct {
	OutputFolder   string // sanitized folder images are written to
	RequestedCount int    // how many images the caller asked for
	Headless       bool   // run Chrome without a window
	Debug          bool   // capture screenshot + page source on fatal errors
	DebugDir       string // where debug artifacts and the run log go
	ConvertJPEG    bool   // normalize every downloaded image to quality-90 JPEG
}

// Candidate is a single discovered image reference. SequenceIndex is 1-based,
// strictly increasing in discovery order, and gapless within one run.
type Candidate struct {
	URL           string
	SequenceIndex int
}

// CandidateSet is an ordered, URL-deduplicated collection of candidates with
// a hard capacity. Insertion order seeds the final file numbering.
type CandidateSet struct {
	capacity int
	items    []Candidate
	seen     map[string]struct{}
}

// NewCandidateSet creates an empty set that accepts at most capacity entries.
func NewCandidateSet(capacity int) *CandidateSet {
	return &CandidateSet{
		capacity: capacity,
		seen:     make(map[string]struct{}),
	}
}

// Add appends url as a new candidate unless it was seen before or the set is
// full. It reports whether a candidate was actually added.
func (s *CandidateSet) Add(url string) bool {
	if s.Full() {
		return false
	}
	if _, dup := s.seen[url]; dup {
		return false
	}
	s.seen[url] = struct{}{}
	s.items = append(s.items, Candidate{URL: url, SequenceIndex: len(s.items) + 1})
	return true
}

// Items returns the candidates in discovery order.
func (s *CandidateSet) Items() []Candidate {
	return s.items
}

// Len returns the number of accepted candidates.
func (s *CandidateSet) Len() int {
	return len(s.items)
}

// Full reports whether the set reached its capacity.
func (s *CandidateSet) Full() bool {
	return s.capacity >= 0 && len(s.items) >= s.capacity
}

// DownloadStatus is the terminal state of one candidate's download.
type DownloadStatus string

const (
	DownloadSuccess DownloadStatus = "success"
	DownloadFailed  DownloadStatus = "failed"
)

// DownloadOutcome records what happened to a single candidate. Outcomes are
// created once by the downloader and never mutated afterwards.
type DownloadOutcome struct {
	Candidate     Candidate
	Status        DownloadStatus
	SavedPath     string // set on success
	FailureReason string // set on failure
}

// RunSummary aggregates a finished run for the caller. Outcomes keeps the
// per-candidate detail so callers can report individual failures.
type RunSummary struct {
	Requested  int
	Found      int
	Downloaded int
	Failed     int
	Outcomes   []DownloadOutcome
}

// Summarize folds per-candidate outcomes into a RunSummary.
func Summarize(requested, found int, outcomes []DownloadOutcome) *RunSummary {
	summary := &RunSummary{Requested: requested, Found: found, Outcomes: outcomes}
	for _, outcome := range outcomes {
		if outcome.Status == DownloadSuccess {
			summary.Downloaded++
		} else {
			summary.Failed++
		}
	}
	return summary
}

func (s *RunSummary) String() string {
	return fmt.Sprintf("requested=%d found=%d downloaded=%d failed=%d",
		s.Requested, s.Found, s.Downloaded, s.Failed)
}
