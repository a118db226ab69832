package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontmatterRoundTrip(t *testing.T) {
	t.Parallel()
	meta := struct {
		Client string  `yaml:"client"`
		Value  float64 `yaml:"value"`
	}{Client: "Acme", Value: 59704}
	doc, err := RenderFrontmatter(meta, "# Title\n")
	require.NoError(t, err)
	assert.Equal(t, "---\nclient: Acme\nvalue: 59704\n---\n\n# Title\n", doc)

	decoded, body, err := SplitFrontmatter(doc)
	require.NoError(t, err)
	assert.Equal(t, "Acme", decoded["client"])
	assert.Equal(t, "\n# Title\n", body)
}

func TestSplitFrontmatterWithoutHeader(t *testing.T) {
	t.Parallel()
	meta, body, err := SplitFrontmatter("plain text")
	require.NoError(t, err)
	assert.Empty(t, meta)
	assert.Equal(t, "plain text", body)

	_, _, err = SplitFrontmatter("---\nclient: x\nno closing")
	assert.Error(t, err)
}

func TestReplaceManagedBlock(t *testing.T) {
	t.Parallel()
	body := "intro\n<!-- s -->\nold\n<!-- e -->\noutro\n"
	assert.Equal(t, "intro\n<!-- s -->\nnew\n<!-- e -->\noutro\n", ReplaceManagedBlock(body, "<!-- s -->", "<!-- e -->", "new"))
	assert.Equal(t, "notes\n\n<!-- s -->\nnew\n<!-- e -->\n", ReplaceManagedBlock("notes\n", "<!-- s -->", "<!-- e -->", "new"))
	assert.Equal(t, "<!-- s -->\nnew\n<!-- e -->\n", ReplaceManagedBlock("  ", "<!-- s -->", "<!-- e -->", "new"))

	content, ok := ManagedContent(body, "<!-- s -->", "<!-- e -->")
	assert.True(t, ok)
	assert.Equal(t, "old", content)
	_, ok = ManagedContent("nothing", "<!-- s -->", "<!-- e -->")
	assert.False(t, ok)
}
