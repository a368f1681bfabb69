package htmltext

import (
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"watchhub/pkg/models"
)

// Block-level elements that form one display block each. Lists are
// handled separately: each li becomes its own block.
var blockTags = map[string]bool{
	"p": true, "div": true, "blockquote": true, "pre": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// Decompose turns one HTML fragment into ordered display blocks.
//
// Only the fragment's top-level block elements are considered; loose
// top-level text and inline elements are skipped. Inside a block, direct
// anchor children become link chunks and everything else is flattened to
// text. Output order mirrors source order. An empty or whitespace-only
// fragment yields no blocks, never an error.
func Decompose(fragment string) []models.Block {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		// Parser failure is survivable: strip tags and keep the text.
		log.Printf("[htmltext] parse warning: %v", err)
		return fallbackBlocks(fragment)
	}

	var blocks []models.Block
	doc.Find("body").Children().Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		switch {
		case node.Data == "ul" || node.Data == "ol":
			sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				if b, ok := decomposeBlock(li.Get(0)); ok {
					blocks = append(blocks, b)
				}
			})
		case blockTags[node.Data]:
			if b, ok := decomposeBlock(node); ok {
				blocks = append(blocks, b)
			}
		}
	})
	return blocks
}

// decomposeBlock walks the direct children of one block element.
// Anchors nested deeper than one level are flattened as text, not links.
func decomposeBlock(n *html.Node) (models.Block, bool) {
	var chunks []models.Chunk
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunks = append(chunks, models.Chunk{Kind: models.ChunkText, Content: buf.String()})
		buf.Reset()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "a" {
			flush()
			chunks = append(chunks, linkChunk(c))
			continue
		}
		appendText(c, &buf)
	}
	flush()

	chunks = normalizeChunks(chunks)
	if len(chunks) == 0 {
		return models.Block{}, false
	}
	return models.Block{Chunks: chunks}, true
}

func linkChunk(n *html.Node) models.Chunk {
	href := attrVal(n, "href")
	if href == "" {
		// dataset authors sometimes leave placeholder anchors
		href = "#"
	}
	if strings.HasPrefix(href, "/u/") {
		// forum-relative user profiles are the one relative form the
		// dataset carries
		href = "https://www.reddit.com" + href
	}
	return models.Chunk{Kind: models.ChunkLink, Content: nodeText(n), Href: href}
}

// normalizeChunks merges consecutive text chunks, then drops text chunks
// that are empty after trimming. Link chunks pass through untouched.
func normalizeChunks(chunks []models.Chunk) []models.Chunk {
	merged := make([]models.Chunk, 0, len(chunks))
	for _, ch := range chunks {
		if ch.Kind == models.ChunkText && len(merged) > 0 && merged[len(merged)-1].Kind == models.ChunkText {
			merged[len(merged)-1].Content += ch.Content
			continue
		}
		merged = append(merged, ch)
	}

	out := merged[:0]
	for _, ch := range merged {
		if ch.Kind == models.ChunkText && strings.TrimSpace(ch.Content) == "" {
			continue
		}
		out = append(out, ch)
	}
	return out
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	appendText(n, &buf)
	return buf.String()
}

// appendText recursively collects text content, textContent-style.
func appendText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(c, buf)
	}
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// fallbackBlocks is the best-effort path when parsing fails: regex-strip
// the tags and keep whatever text remains as a single block.
func fallbackBlocks(fragment string) []models.Block {
	text := htmlTagRegex.ReplaceAllString(fragment, " ")
	text = strings.TrimSpace(html.UnescapeString(text))
	if text == "" {
		return nil
	}
	return []models.Block{{Chunks: []models.Chunk{{Kind: models.ChunkText, Content: text}}}}
}
