package thesaurus_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
	"github.com/pkordes/cafe-recs/backend/internal/thesaurus"
)

func TestDefault_CoversEveryVibe(t *testing.T) {
	th, err := thesaurus.Default()
	require.NoError(t, err)

	for _, v := range domain.AllVibes {
		syns, err := th.Synonyms(context.Background(), v.Word())
		require.NoError(t, err)
		assert.NotEmpty(t, syns, "vibe %s has no synonyms", v)
		assert.Equal(t, v.Word(), syns[0], "the word itself comes first")
	}
}

func TestDefault_OnlyVibeWords(t *testing.T) {
	th, err := thesaurus.Default()
	require.NoError(t, err)

	assert.Equal(t, len(domain.AllVibes), th.Len())
}

func TestSynonyms_UnknownWord(t *testing.T) {
	th, err := thesaurus.Load(strings.NewReader("quiet: [calm]\n"))
	require.NoError(t, err)

	got, err := th.Synonyms(context.Background(), "boisterous")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSynonyms_CaseInsensitiveKey(t *testing.T) {
	th, err := thesaurus.Load(strings.NewReader("Quiet: [calm, still]\n"))
	require.NoError(t, err)

	got, err := th.Synonyms(context.Background(), "QUIET")

	require.NoError(t, err)
	assert.Equal(t, []string{"quiet", "calm", "still"}, got)
}

func TestSynonyms_ReturnsCopy(t *testing.T) {
	th, err := thesaurus.Load(strings.NewReader("quiet: [calm]\n"))
	require.NoError(t, err)

	first, err := th.Synonyms(context.Background(), "quiet")
	require.NoError(t, err)
	first[1] = "mutated"

	second, err := th.Synonyms(context.Background(), "quiet")
	require.NoError(t, err)
	assert.Equal(t, "calm", second[1])
}

func TestSynonyms_CancelledContext(t *testing.T) {
	th, err := thesaurus.Default()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = th.Synonyms(ctx, "quiet")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_EmptyDocument(t *testing.T) {
	th, err := thesaurus.Load(strings.NewReader(""))

	require.NoError(t, err)
	assert.Zero(t, th.Len())
}

func TestLoad_Malformed(t *testing.T) {
	_, err := thesaurus.Load(strings.NewReader("quiet: {calm: [\n"))

	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tasty:\n  - yummy\n"), 0o600))

	th, err := thesaurus.LoadFile(path)
	require.NoError(t, err)

	got, err := th.Synonyms(context.Background(), "tasty")
	require.NoError(t, err)
	assert.Equal(t, []string{"tasty", "yummy"}, got)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := thesaurus.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}
