package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const fixture = `<html>
<head><title>  Search Results  </title></head>
<body>
	<div class="review">
		<div class="body">
			<div class="rating"><div>Story <span>8</span></div></div>
			Great show, would watch again.
		</div>
	</div>
	<h3 class="header">Main Role</h3>
	<ul><li><b>Lee Min Ho</b><img class="lazy" src="eager.jpg" data-src="lazy.jpg"></li></ul>
	<h3 class="header">Orphan</h3>
	<img class="plain" src="only-src.jpg">
	<img class="blank" src="src.jpg" data-src="">
</body>
</html>`

func mustParse(t *testing.T, markup string) Document {
	t.Helper()
	doc, err := Parse(markup)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestDocumentQueries(t *testing.T) {
	doc := mustParse(t, fixture)

	require.Equal(t, "Search Results", doc.Title())

	headers := doc.Find("h3.header")
	require.Len(t, headers, 2)
	require.Equal(t, "Main Role", headers[0].Text())
	require.Equal(t, "h3", headers[0].Tag())

	list, ok := headers[0].Next()
	require.True(t, ok)
	require.Equal(t, "ul", list.Tag())
	require.Len(t, list.Find("li"), 1)

	_, ok = doc.First(".does-not-exist")
	require.False(t, ok)
	require.Empty(t, doc.Find(".does-not-exist"))
}

func TestOwnText(t *testing.T) {
	doc := mustParse(t, fixture)

	row, ok := doc.First(".rating div")
	require.True(t, ok)
	require.Equal(t, "Story 8", NormalizeSpace(row.Text()))
	require.Equal(t, "Story", row.OwnText())
}

func TestWithoutDoesNotMutate(t *testing.T) {
	doc := mustParse(t, fixture)

	body, ok := doc.First(".review .body")
	require.True(t, ok)

	stripped := body.Without("div")
	require.Equal(t, "Great show, would watch again.", stripped.Text())

	// the source tree still holds the rating block
	require.Contains(t, body.Text(), "Story")
	require.Len(t, doc.Find(".rating"), 1)

	again := body.Without("div")
	require.Equal(t, stripped.Text(), again.Text())
}

func TestLazyAttr(t *testing.T) {
	doc := mustParse(t, fixture)

	lazy, _ := doc.First("img.lazy")
	require.Equal(t, "lazy.jpg", LazyAttr(lazy))

	plain, _ := doc.First("img.plain")
	require.Equal(t, "only-src.jpg", LazyAttr(plain))

	blank, _ := doc.First("img.blank")
	require.Equal(t, "src.jpg", LazyAttr(blank))

	require.Equal(t, "", LazyAttr(Node{}))
}

func TestZeroValues(t *testing.T) {
	var doc Document
	require.Empty(t, doc.Find("a"))
	require.Equal(t, "", doc.Title())

	var n Node
	require.False(t, n.Valid())
	require.Equal(t, "", n.Text())
	require.Equal(t, "", n.OwnText())
	_, ok := n.Next()
	require.False(t, ok)
	require.False(t, n.Without("div").Valid())
}

func TestNormalizeSpace(t *testing.T) {
	require.Equal(t, "a b c", NormalizeSpace("  a   b \n\n c\t"))
	require.Equal(t, "", NormalizeSpace(" \n "))
	require.Equal(t, "one line", NormalizeSpace("one\nline"))
	require.Equal(t, "bell", NormalizeSpace("be\x07ll"))
}
