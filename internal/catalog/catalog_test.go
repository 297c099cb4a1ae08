package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ruminaider/selectfield/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("yaml with numeric and string values", func(t *testing.T) {
		input := []byte(`- value: 1
  displayText: Alpha
- value: beta
  displayText: Beta
`)
		items, err := catalog.Parse(input, catalog.FormatYAML)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, catalog.Item[string]{Value: "1", DisplayText: "Alpha"}, items[0])
		assert.Equal(t, catalog.Item[string]{Value: "beta", DisplayText: "Beta"}, items[1])
	})

	t.Run("json keeps large ids exact", func(t *testing.T) {
		input := []byte(`[{"value": 12345678901234567890, "displayText": "Big"}]`)
		items, err := catalog.Parse(input, catalog.FormatJSON)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "12345678901234567890", items[0].Value)
	})

	t.Run("toml array of tables", func(t *testing.T) {
		input := []byte(`[[items]]
value = 1
displayText = "Alpha"

[[items]]
value = "two"
displayText = "Two"
`)
		items, err := catalog.Parse(input, catalog.FormatTOML)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "1", items[0].Value)
		assert.Equal(t, "Two", items[1].DisplayText)
	})

	t.Run("empty documents are empty catalogs", func(t *testing.T) {
		for _, format := range []catalog.Format{catalog.FormatYAML, catalog.FormatJSON, catalog.FormatTOML} {
			items, err := catalog.Parse(nil, format)
			require.NoError(t, err, format.String())
			assert.Empty(t, items, format.String())
		}
	})

	t.Run("top level mapping is not a sequence", func(t *testing.T) {
		_, err := catalog.Parse([]byte("value: 1\ndisplayText: Alpha\n"), catalog.FormatYAML)
		assert.ErrorIs(t, err, catalog.ErrNotSequence)

		_, err = catalog.Parse([]byte(`{"value": 1}`), catalog.FormatJSON)
		assert.ErrorIs(t, err, catalog.ErrNotSequence)

		_, err = catalog.Parse([]byte(`title = "x"`), catalog.FormatTOML)
		assert.ErrorIs(t, err, catalog.ErrNotSequence)
	})

	t.Run("malformed items", func(t *testing.T) {
		cases := map[string]string{
			"scalar entry":       "- hello\n",
			"missing value":      "- displayText: A\n",
			"nested value":       "- value: [1, 2]\n  displayText: A\n",
			"missing display":    "- value: 1\n",
			"non-string display": "- value: 1\n  displayText: 5\n",
		}
		for name, input := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := catalog.Parse([]byte(input), catalog.FormatYAML)
				assert.ErrorIs(t, err, catalog.ErrMalformedItem)
			})
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := catalog.Parse([]byte(`{{{`), catalog.FormatYAML)
		assert.Error(t, err)
	})
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want catalog.Format
	}{
		{"items.yaml", catalog.FormatYAML},
		{"items.yml", catalog.FormatYAML},
		{"items.JSON", catalog.FormatJSON},
		{"dir/items.toml", catalog.FormatTOML},
		{"items", catalog.FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.FormatFromPath(tt.path))
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	items := []catalog.Item[string]{
		{Value: "1", DisplayText: "Alpha"},
		{Value: "2", DisplayText: "Beta"},
	}
	dir := t.TempDir()
	for _, name := range []string{"c.yaml", "c.json", "c.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", name)
			require.NoError(t, catalog.Save(path, items))
			got, err := catalog.Load(path)
			require.NoError(t, err)
			assert.Equal(t, items, got)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := catalog.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDuplicates(t *testing.T) {
	items := []catalog.Item[int]{
		{Value: 1, DisplayText: "a"},
		{Value: 2, DisplayText: "b"},
		{Value: 1, DisplayText: "c"},
		{Value: 1, DisplayText: "d"},
		{Value: 2, DisplayText: "e"},
		{Value: 3, DisplayText: "f"},
	}
	assert.Equal(t, []int{1, 2}, catalog.Duplicates(items))
	assert.Empty(t, catalog.Duplicates(items[:2]))
}

func TestLookup(t *testing.T) {
	items := []catalog.Item[int]{{Value: 1, DisplayText: "a"}, {Value: 1, DisplayText: "b"}}
	it, ok := catalog.Lookup(items, 1)
	require.True(t, ok)
	assert.Equal(t, "a", it.DisplayText)

	_, ok = catalog.Lookup(items, 9)
	assert.False(t, ok)
}
