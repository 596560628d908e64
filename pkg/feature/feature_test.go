package feature_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/feature"
)

func TestNewManager(t *testing.T) {
	t.Parallel()

	t.Run("keeps definition order", func(t *testing.T) {
		t.Parallel()
		m, err := feature.NewManager(
			feature.Definition{Name: "b", DefaultValue: "1"},
			feature.Definition{Name: "a", DefaultValue: "2"},
		)
		require.NoError(t, err)

		all := m.All()
		require.Len(t, all, 2)
		assert.Equal(t, "b", all[0].Name)
		assert.Equal(t, "a", all[1].Name)

		d, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, "2", d.DefaultValue)

		_, ok = m.Get("missing")
		assert.False(t, ok)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()
		_, err := feature.NewManager(feature.Definition{})
		assert.ErrorIs(t, err, feature.ErrInvalidDefinition)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		t.Parallel()
		_, err := feature.NewManager(feature.Definition{Name: "a"}, feature.Definition{Name: "a"})
		assert.ErrorIs(t, err, feature.ErrInvalidDefinition)
	})
}

func TestLoadDefinitions(t *testing.T) {
	t.Parallel()

	const doc = `
features:
  - name: App.MaxUserCount
    default: "10"
    display_name: Maximum user count
  - name: App.ChatEnabled
    default: "false"
`

	t.Run("reader", func(t *testing.T) {
		t.Parallel()
		defs, err := feature.LoadDefinitions(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, defs, 2)
		assert.Equal(t, feature.Definition{Name: "App.MaxUserCount", DefaultValue: "10", DisplayName: "Maximum user count"}, defs[0])
		assert.Equal(t, "false", defs[1].DefaultValue)
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()
		defs, err := feature.LoadDefinitions(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, defs)
	})

	t.Run("malformed document", func(t *testing.T) {
		t.Parallel()
		_, err := feature.LoadDefinitions(strings.NewReader("features: [\n"))
		assert.ErrorIs(t, err, feature.ErrInvalidDefinitionFile)
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"features.yaml": &fstest.MapFile{Data: []byte(doc)}}
		defs, err := feature.LoadDefinitionsFile(fsys, "features.yaml")
		require.NoError(t, err)
		assert.Len(t, defs, 2)

		_, err = feature.LoadDefinitionsFile(fsys, "missing.yaml")
		assert.ErrorIs(t, err, feature.ErrInvalidDefinitionFile)
	})
}
