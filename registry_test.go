package percept_test

import (
	"testing"

	"github.com/fwojciec/percept"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	t.Run("appends a rule carrying source and timestamp", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src", percept.WithClock(func() int64 { return 1700000000 }))

		rule, err := reg.Register(`https://x/.*`, "hash", "article", "")

		require.NoError(t, err)
		assert.Equal(t, "src", rule.Source)
		assert.Equal(t, int64(1700000000), rule.Timestamp)
		assert.Equal(t, `https://x/.*`, rule.Pattern)
		assert.Equal(t, "hash", rule.ScriptHash)
		assert.Equal(t, "article", rule.ObjectType)
	})

	t.Run("rejects patterns that do not compile", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src")

		_, err := reg.Register("(unclosed", "hash", "article", "")

		require.Error(t, err)
		assert.Equal(t, percept.EINVALID, percept.ErrorCode(err))
	})
}

func TestRegistry_Match(t *testing.T) {
	t.Parallel()

	t.Run("returns first matching rule in registration order", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src")
		r1, err := reg.Register(`https://x/a.*`, "h1", "article", "")
		require.NoError(t, err)
		_, err = reg.Register(`https://x/.*`, "h2", "article", "")
		require.NoError(t, err)

		got := reg.Match("https://x/a1")

		require.NotNil(t, got)
		assert.Same(t, r1, got)
	})

	t.Run("anchors patterns at the start of the URL", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src")
		_, err := reg.Register(`x/a`, "h", "article", "")
		require.NoError(t, err)

		assert.Nil(t, reg.Match("https://x/a"))
		assert.NotNil(t, reg.Match("x/a"))
	})

	t.Run("returns nil when no rule matches", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src")

		assert.Nil(t, reg.Match("https://example.com/news/1"))
	})
}

func TestRegistry_EnsureDefault(t *testing.T) {
	t.Parallel()

	t.Run("synthesizes a catch-all rule for article-section URLs", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src", percept.WithClock(func() int64 { return 42 }))

		rule, created := reg.EnsureDefault("https://site.example/news/42")

		require.NotNil(t, rule)
		assert.True(t, created)
		assert.Equal(t, `https?://(www\.)?site\.example/.*`, rule.Pattern)
		assert.Equal(t, percept.PlaceholderScriptHash, rule.ScriptHash)
		assert.Equal(t, "article", rule.ObjectType)
		assert.Equal(t, int64(42), rule.Timestamp)
	})

	t.Run("covers sport sections and www variants", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src")

		rule, created := reg.EnsureDefault("https://www.site.example/sport/cricket/99")

		require.NotNil(t, rule)
		assert.True(t, created)
		assert.Equal(t, `https?://(www\.)?site\.example/.*`, rule.Pattern)
		assert.Same(t, rule, reg.Match("https://site.example/sport/other"))
		assert.Same(t, rule, reg.Match("https://www.site.example/news/1"))
	})

	t.Run("fires once per site", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src")

		first, created := reg.EnsureDefault("https://site.example/news/1")
		second, reused := reg.EnsureDefault("https://site.example/news/2")

		require.NotNil(t, first)
		assert.True(t, created)
		assert.False(t, reused)
		assert.Same(t, first, second)
		assert.Len(t, reg.Rules(), 1)
	})

	t.Run("returns nil for URLs outside article sections", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src")

		rule, created := reg.EnsureDefault("https://site.example/about")

		assert.Nil(t, rule)
		assert.False(t, created)
		assert.Empty(t, reg.Rules())
	})

	t.Run("returns the registered rule when one already matches", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src")
		registered, err := reg.Register(`https://site\.example/news/.*`, "real", "article", "")
		require.NoError(t, err)

		got, created := reg.EnsureDefault("https://site.example/news/1")

		assert.Same(t, registered, got)
		assert.False(t, created)
		assert.Len(t, reg.Rules(), 1)
	})
}

func TestRegistry_Restore(t *testing.T) {
	t.Parallel()

	t.Run("keeps original source and timestamp", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("new-run")
		old := &percept.Rule{
			Source:     "old-run",
			Timestamp:  100,
			Pattern:    `https://x/.*`,
			ScriptHash: "h",
			ObjectType: "article",
		}

		require.NoError(t, reg.Restore(old))

		got := reg.Match("https://x/1")
		require.NotNil(t, got)
		assert.Equal(t, "old-run", got.Source)
		assert.Equal(t, int64(100), got.Timestamp)
	})

	t.Run("preserves match order across restores", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src")
		first := &percept.Rule{Pattern: `https://x/a.*`, ScriptHash: "h1", ObjectType: "article"}
		second := &percept.Rule{Pattern: `https://x/.*`, ScriptHash: "h2", ObjectType: "article"}

		require.NoError(t, reg.Restore(first))
		require.NoError(t, reg.Restore(second))

		assert.Same(t, first, reg.Match("https://x/a1"))
		assert.Same(t, second, reg.Match("https://x/b"))
	})

	t.Run("rejects rules with invalid patterns", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src")

		err := reg.Restore(&percept.Rule{Pattern: "(unclosed"})

		require.Error(t, err)
		assert.Equal(t, percept.EINVALID, percept.ErrorCode(err))
	})
}

func TestRegistry_Rules(t *testing.T) {
	t.Parallel()

	t.Run("snapshots rules in registration order", func(t *testing.T) {
		t.Parallel()

		reg := percept.NewRegistry("src")
		r1, err := reg.Register(`https://a/.*`, "h1", "article", "")
		require.NoError(t, err)
		r2, err := reg.Register(`https://b/.*`, "h2", "article", "")
		require.NoError(t, err)

		rules := reg.Rules()

		require.Len(t, rules, 2)
		assert.Same(t, r1, rules[0])
		assert.Same(t, r2, rules[1])
	})
}
