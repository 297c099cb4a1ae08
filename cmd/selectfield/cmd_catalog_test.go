package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/ruminaider/selectfield/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCatalog(t *testing.T) {
	dir := t.TempDir()

	t.Run("clean", func(t *testing.T) {
		path := filepath.Join(dir, "clean.yaml")
		writeFile(t, path, "- {value: a, displayText: Alpha}\n- {value: b, displayText: Beta}\n")

		var out bytes.Buffer
		require.NoError(t, checkCatalog(&out, path))
		assert.Contains(t, out.String(), "✓ "+path+": 2 items (yaml)")
	})

	t.Run("duplicates fail", func(t *testing.T) {
		path := filepath.Join(dir, "dups.json")
		writeFile(t, path, `[
			{"value": "a", "displayText": "Alpha"},
			{"value": "a", "displayText": "Again"},
			{"value": "b", "displayText": ""}
		]`)

		var out bytes.Buffer
		err := checkCatalog(&out, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 duplicate values")
		assert.Contains(t, out.String(), "3 items (json)")
		assert.Contains(t, out.String(), `! item "b" has no display text`)
		assert.Contains(t, out.String(), "✗ duplicate values: a")
	})

	t.Run("unreadable", func(t *testing.T) {
		var out bytes.Buffer
		err := checkCatalog(&out, filepath.Join(dir, "missing.toml"))
		require.Error(t, err)
		assert.Contains(t, out.String(), "✗ reading catalog")
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		writeFile(t, path, "value: a\n")

		var out bytes.Buffer
		err := checkCatalog(&out, path)
		assert.ErrorIs(t, err, catalog.ErrNotSequence)
	})
}

func TestValidateValue(t *testing.T) {
	validate := validateValue([]catalog.Item[string]{{Value: "a", DisplayText: "Alpha"}})

	assert.NoError(t, validate("b"))
	assert.EqualError(t, validate("  "), "value is required")
	assert.EqualError(t, validate(" a "), `"a" is already in the catalog`)
}

func TestNewItem(t *testing.T) {
	assert.Equal(t, catalog.Item[string]{Value: "a", DisplayText: "Alpha"}, newItem(" a ", " Alpha "))
	assert.Equal(t, catalog.Item[string]{Value: "b", DisplayText: "b"}, newItem("b", ""))
}

func TestCatalogArg(t *testing.T) {
	assert.Equal(t, "items.toml", catalogArg([]string{"items.toml"}))
	assert.Equal(t, "catalog.yaml", filepath.Base(catalogArg(nil)))
}
