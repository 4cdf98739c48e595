package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateSetDeduplicatesAndNumbers(t *testing.T) {
	set := NewCandidateSet(10)

	assert.True(t, set.Add("https://a.example/1.jpg"))
	assert.True(t, set.Add("https://a.example/2.jpg"))
	assert.False(t, set.Add("https://a.example/1.jpg"), "duplicate URL must be rejected")
	assert.True(t, set.Add("https://a.example/3.jpg"))

	items := set.Items()
	assert.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, i+1, item.SequenceIndex, "sequence indices must be 1-based and gapless")
	}
}

func TestCandidateSetCapacity(t *testing.T) {
	set := NewCandidateSet(2)

	assert.True(t, set.Add("https://a.example/1.jpg"))
	assert.True(t, set.Add("https://a.example/2.jpg"))
	assert.True(t, set.Full())
	assert.False(t, set.Add("https://a.example/3.jpg"), "full set must reject new URLs")
	assert.Equal(t, 2, set.Len())
}

func TestCandidateSetZeroCapacity(t *testing.T) {
	set := NewCandidateSet(0)

	assert.True(t, set.Full())
	assert.False(t, set.Add("https://a.example/1.jpg"))
	assert.Equal(t, 0, set.Len())
}

func TestPrefixPerSearchKind(t *testing.T) {
	assert.Equal(t, "image", SearchRequest{Kind: TextSearch, Term: "cats"}.Prefix())
	assert.Equal(t, "similar", SearchRequest{Kind: ReverseSearch, ImagePath: "x.jpg"}.Prefix())
}

func TestSummarize(t *testing.T) {
	outcomes := []DownloadOutcome{
		{Status: DownloadSuccess, SavedPath: "out/image_001.jpg"},
		{Status: DownloadFailed, FailureReason: "http status 404"},
		{Status: DownloadSuccess, SavedPath: "out/image_003.jpg"},
	}

	summary := Summarize(5, 3, outcomes)

	assert.Equal(t, 5, summary.Requested)
	assert.Equal(t, 3, summary.Found)
	assert.Equal(t, 2, summary.Downloaded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "requested=5 found=3 downloaded=2 failed=1", summary.String())
}
