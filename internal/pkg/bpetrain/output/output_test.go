package output

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"bpetrain/internal/pkg/bpetrain/vocab"
)

func TestSaveVocabulary(t *testing.T) {
	fs := afero.NewMemMapFs()

	require.NoError(t, SaveVocabulary(fs, "out/vocab.txt", []string{"a", " ", "lo", " low"}))

	data, err := afero.ReadFile(fs, "out/vocab.txt")
	require.NoError(t, err)
	require.Equal(t, "a\n \nlo\n low\n", string(data))

	entries, err := afero.ReadDir(fs, "out")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")
}

func TestSaveMerges(t *testing.T) {
	fs := afero.NewMemMapFs()
	merges := []vocab.Merge{{Left: "l", Right: "o"}, {Left: " ", Right: "low"}, {Left: "<", Right: "&"}}

	require.NoError(t, SaveMerges(fs, "merges.json", merges))

	data, err := afero.ReadFile(fs, "merges.json")
	require.NoError(t, err)
	require.Equal(t, `[["l","o"],[" ","low"],["<","&"]]`+"\n", string(data))

	loaded, err := LoadMerges(fs, "merges.json")
	require.NoError(t, err)
	require.Equal(t, merges, loaded)
}

func TestSaveEmptyMerges(t *testing.T) {
	fs := afero.NewMemMapFs()

	require.NoError(t, SaveMerges(fs, "merges.json", nil))

	data, err := afero.ReadFile(fs, "merges.json")
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(data))
}

func TestSaveReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	require.Error(t, SaveVocabulary(fs, "vocab.txt", []string{"a"}))
}

func TestLoadMergesErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := LoadMerges(fs, "missing.json")
	require.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "bad.json", []byte(`[["a","b","c"]]`), 0644))
	_, err = LoadMerges(fs, "bad.json")
	require.Error(t, err)
}
