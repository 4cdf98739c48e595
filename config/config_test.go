package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagehound/models"
)

func TestResolveTextSearchDefaults(t *testing.T) {
	request, cfg, err := Resolve(Options{SearchTerm: "cute cats", NumImages: 20, Headless: true})
	require.NoError(t, err)

	assert.Equal(t, models.TextSearch, request.Kind)
	assert.Equal(t, "cute cats", request.Term)
	assert.Equal(t, "cute cats", cfg.OutputFolder)
	assert.Equal(t, 20, cfg.RequestedCount)
	assert.True(t, cfg.Headless)
}

func TestResolveReverseSearchDefaultFolder(t *testing.T) {
	request, cfg, err := Resolve(Options{ReverseImage: "photos/my dog.png", NumImages: 5})
	require.NoError(t, err)

	assert.Equal(t, models.ReverseSearch, request.Kind)
	assert.Equal(t, "photos/my dog.png", request.ImagePath)
	assert.Equal(t, "reverse_search_my dog", cfg.OutputFolder)
}

func TestResolveRejectsAmbiguousMode(t *testing.T) {
	_, _, err := Resolve(Options{})
	assert.Error(t, err, "neither mode selected")

	_, _, err = Resolve(Options{SearchTerm: "cats", ReverseImage: "dog.png"})
	assert.Error(t, err, "both modes selected")
}

func TestResolveRejectsNegativeCount(t *testing.T) {
	_, _, err := Resolve(Options{SearchTerm: "cats", NumImages: -1})
	assert.Error(t, err)
}

func TestResolveHonorsExplicitOutputFolder(t *testing.T) {
	_, cfg, err := Resolve(Options{SearchTerm: "sunset", OutputFolder: "beautiful_sunsets", NumImages: 1})
	require.NoError(t, err)
	assert.Equal(t, "beautiful_sunsets", cfg.OutputFolder)
}

func TestSanitizeFolderName(t *testing.T) {
	assert.Equal(t, "cute cats", SanitizeFolderName("cute cats"), "spaces between words survive")
	assert.Equal(t, "beautiful_sunsets", SanitizeFolderName("beautiful_sunsets"), "underscores survive")
	assert.Equal(t, "reverse_search_my dog", SanitizeFolderName("reverse_search_my dog"))
	assert.Equal(t, "images", SanitizeFolderName("   "), "blank names fall back to a safe default")

	for _, in := range []string{"a/b\\c", `cats<>:"?*`, "../../etc"} {
		got := SanitizeFolderName(in)
		assert.NotEmpty(t, got)
		assert.NotContains(t, got, "/")
		assert.NotContains(t, got, "\\")
		assert.NotContains(t, got, "..")
	}
}
