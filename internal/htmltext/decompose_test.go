package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchhub/pkg/models"
)

func text(s string) models.Chunk {
	return models.Chunk{Kind: models.ChunkText, Content: s}
}

func link(content, href string) models.Chunk {
	return models.Chunk{Kind: models.ChunkLink, Content: content, Href: href}
}

func block(chunks ...models.Chunk) models.Block {
	return models.Block{Chunks: chunks}
}

func TestDecompose_Empty(t *testing.T) {
	assert.Nil(t, Decompose(""))
	assert.Nil(t, Decompose("   \n\t  "))
}

func TestDecompose_Paragraphs(t *testing.T) {
	blocks := Decompose(`<p>Watch <strong>this</strong> first.</p><p>Then the rest.</p>`)

	require.Len(t, blocks, 2)
	assert.Equal(t, block(text("Watch this first.")), blocks[0])
	assert.Equal(t, block(text("Then the rest.")), blocks[1])
}

func TestDecompose_Links(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		expected []models.Chunk
	}{
		{
			name:     "absolute href kept",
			fragment: `<p>See <a href="https://example.com/guide">the guide</a> for details.</p>`,
			expected: []models.Chunk{
				text("See "),
				link("the guide", "https://example.com/guide"),
				text(" for details."),
			},
		},
		{
			name:     "user profile href absolutised",
			fragment: `<p>Thanks to <a href="/u/roadromancer">roadromancer</a>!</p>`,
			expected: []models.Chunk{
				text("Thanks to "),
				link("roadromancer", "https://www.reddit.com/u/roadromancer"),
				text("!"),
			},
		},
		{
			name:     "other relative hrefs untouched",
			fragment: `<p><a href="/r/anime">the subreddit</a></p>`,
			expected: []models.Chunk{
				link("the subreddit", "/r/anime"),
			},
		},
		{
			name:     "missing href becomes placeholder",
			fragment: `<p><a>dead link</a></p>`,
			expected: []models.Chunk{
				link("dead link", "#"),
			},
		},
		{
			name:     "adjacent links stay separate",
			fragment: `<p><a href="https://a.example/1">first</a> <a href="https://a.example/2">second</a></p>`,
			expected: []models.Chunk{
				link("first", "https://a.example/1"),
				link("second", "https://a.example/2"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blocks := Decompose(tc.fragment)
			require.Len(t, blocks, 1)
			assert.Equal(t, tc.expected, blocks[0].Chunks)
		})
	}
}

func TestDecompose_DropsEmptyBlocksAndChunks(t *testing.T) {
	// whitespace-only paragraphs vanish entirely
	blocks := Decompose(`<p>   </p><p>Real content</p><p></p>`)
	require.Len(t, blocks, 1)
	assert.Equal(t, block(text("Real content")), blocks[0])

	// whitespace padding around a link never survives as text chunks
	blocks = Decompose(`<p>  <a href="https://example.com">only link</a>  </p>`)
	require.Len(t, blocks, 1)
	assert.Equal(t, []models.Chunk{link("only link", "https://example.com")}, blocks[0].Chunks)
}

func TestDecompose_Lists(t *testing.T) {
	blocks := Decompose(`<ul><li>Watch the TV series</li><li>Then <a href="https://example.com/movie">the movie</a></li></ul>`)

	require.Len(t, blocks, 2)
	assert.Equal(t, block(text("Watch the TV series")), blocks[0])
	assert.Equal(t, []models.Chunk{
		text("Then "),
		link("the movie", "https://example.com/movie"),
	}, blocks[1].Chunks)

	// ordered lists split the same way
	blocks = Decompose(`<ol><li>One</li><li>Two</li><li>Three</li></ol>`)
	require.Len(t, blocks, 3)
	assert.Equal(t, block(text("Two")), blocks[1])
}

func TestDecompose_NestedAnchorFlattenedToText(t *testing.T) {
	blocks := Decompose(`<p><em><a href="https://example.com">hidden</a></em> after</p>`)

	require.Len(t, blocks, 1)
	assert.Equal(t, []models.Chunk{text("hidden after")}, blocks[0].Chunks)
}

func TestDecompose_SkipsLooseTopLevelContent(t *testing.T) {
	blocks := Decompose(`loose text <span>inline</span> <p>kept</p> trailing`)

	require.Len(t, blocks, 1)
	assert.Equal(t, block(text("kept")), blocks[0])
}

func TestDecompose_BlockVariety(t *testing.T) {
	blocks := Decompose(`<h2>Heading</h2><div>Div text</div><blockquote>Quote</blockquote>`)

	require.Len(t, blocks, 3)
	assert.Equal(t, block(text("Heading")), blocks[0])
	assert.Equal(t, block(text("Div text")), blocks[1])
	assert.Equal(t, block(text("Quote")), blocks[2])
}

func TestDecompose_EntitiesDecoded(t *testing.T) {
	blocks := Decompose(`<p>Fish &amp; chips &lt;3</p>`)

	require.Len(t, blocks, 1)
	assert.Equal(t, block(text("Fish & chips <3")), blocks[0])
}

func TestDecompose_OrderMirrorsSource(t *testing.T) {
	fragment := `<p>Start with the TV series.</p>` +
		`<p>Full discussion <a href="/u/writer">here</a>.</p>` +
		`<ul><li>Season one</li><li>Season two</li></ul>`

	blocks := Decompose(fragment)
	require.Len(t, blocks, 4)
	assert.Equal(t, block(text("Start with the TV series.")), blocks[0])
	assert.Equal(t, []models.Chunk{
		text("Full discussion "),
		link("here", "https://www.reddit.com/u/writer"),
		text("."),
	}, blocks[1].Chunks)
	assert.Equal(t, block(text("Season one")), blocks[2])
	assert.Equal(t, block(text("Season two")), blocks[3])
}
