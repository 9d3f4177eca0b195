package goquery_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/scriptorium"
	"github.com/fwojciec/scriptorium/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// han returns n characters of Han prose for building test pages above
// or below the content threshold.
func han(n int) string {
	return strings.Repeat("书", n)
}

func TestClassifier_Classify_Content(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	page := fmt.Sprintf(`<html><head><title>doc title</title></head><body>
		<h1>第一章</h1>
		<div id="text">
			<p>%s</p>
			<p>%s</p>
		</div>
	</body></html>`, han(120), han(110))

	cls, err := c.Classify(page, "https://example.com/b/1.html", nil)
	require.NoError(t, err)

	assert.Equal(t, scriptorium.PageContent, cls.Kind)
	assert.Equal(t, "第一章", cls.Title, "heading wins over document title")
	require.Len(t, cls.Segments, 2)
	assert.Equal(t, han(120), cls.Segments[0])
	assert.Equal(t, han(110), cls.Segments[1])
}

func TestClassifier_Classify_Index(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	page := `<html><body>
		<h2>作品目录</h2>
		<ul>
			<li><a href="/b/ch1.html">第一章</a></li>
			<li><a href="/b/ch2.html">第二章</a></li>
			<li><a href="/b/ch1.html">第一章</a></li>
			<li><a href="https://other.example.net/x">elsewhere</a></li>
			<li><a href="/home.html">首页</a></li>
		</ul>
	</body></html>`

	cls, err := c.Classify(page, "https://example.com/b/", nil)
	require.NoError(t, err)

	assert.Equal(t, scriptorium.PageIndex, cls.Kind)
	assert.Equal(t, "作品目录", cls.Title)
	require.Len(t, cls.Links, 2, "duplicates, off-host links and nav phrases are filtered")
	assert.Equal(t, "https://example.com/b/ch1.html", cls.Links[0].URL)
	assert.Equal(t, "第一章", cls.Links[0].Text)
	assert.Equal(t, "https://example.com/b/ch2.html", cls.Links[1].URL)
}

func TestClassifier_Classify_Empty(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	cls, err := c.Classify("<html><body><p>hi</p></body></html>", "https://example.com/", nil)
	require.NoError(t, err)
	assert.Equal(t, scriptorium.PageEmpty, cls.Kind)
	assert.Empty(t, cls.Segments)
	assert.Empty(t, cls.Links)
}

func TestClassifier_Classify_Deterministic(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	page := fmt.Sprintf(`<html><body>
		<p>%s</p>
		<p><a href="/b/2.html">下一页</a></p>
	</body></html>`, han(150))

	first, err := c.Classify(page, "https://example.com/b/1.html", nil)
	require.NoError(t, err)
	second, err := c.Classify(page, "https://example.com/b/1.html", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassifier_LinkDensity(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	t.Run("sparse links keep a block content-bearing", func(t *testing.T) {
		t.Parallel()

		// 150 chars over 2 links is 75 chars per link, above the ratio.
		page := fmt.Sprintf(`<html><body><div>%s <a href="/a">注1</a> %s <a href="/b">注2</a></div></body></html>`,
			han(80), han(70))

		cls, err := c.Classify(page, "https://example.com/p", nil)
		require.NoError(t, err)
		assert.Equal(t, scriptorium.PageContent, cls.Kind)
	})

	t.Run("link-dense block is not content", func(t *testing.T) {
		t.Parallel()

		// The same 150 chars over 10 links is 15 chars per link, below
		// the ratio, so the block reads as a chapter list.
		var links strings.Builder
		for i := 0; i < 10; i++ {
			fmt.Fprintf(&links, `<a href="/ch%d.html">%s</a> `, i, han(15))
		}
		page := fmt.Sprintf(`<html><body><div>%s</div></body></html>`, links.String())

		cls, err := c.Classify(page, "https://example.com/p", nil)
		require.NoError(t, err)
		assert.Equal(t, scriptorium.PageIndex, cls.Kind)
	})
}

func TestClassifier_TieBreak_LastBlockWins(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	page := fmt.Sprintf(`<html><body>
		<p>%s甲</p>
		<p>%s乙</p>
	</body></html>`, han(120), han(120))

	cls, err := c.Classify(page, "https://example.com/p", nil)
	require.NoError(t, err)
	require.Equal(t, scriptorium.PageContent, cls.Kind)
	require.Len(t, cls.Segments, 1)
	assert.Equal(t, han(120)+"乙", cls.Segments[0], "equal-count blocks resolve to the last in document order")
}

func TestClassifier_SegmentAdmission(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	lines := []string{
		han(120), // carrier line so the block clears the content threshold
		"12",     // footnote marker, kept despite no target script
		"*",      // footnote marker, kept despite length
		"你好",     // short target-script prose, kept
		"啊",      // single rune, not a footnote marker, dropped
		"ab",     // no target-script characters, dropped
	}
	var body strings.Builder
	body.WriteString("<html><body><div>")
	for _, line := range lines {
		fmt.Fprintf(&body, "<p>%s</p>", line)
	}
	body.WriteString("</div></body></html>")

	cls, err := c.Classify(body.String(), "https://example.com/p", nil)
	require.NoError(t, err)
	require.Equal(t, scriptorium.PageContent, cls.Kind)
	assert.Equal(t, []string{han(120), "12", "*", "你好"}, cls.Segments)
}

func TestClassifier_SegmentCleaning(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	page := fmt.Sprintf(`<html><body><div>
		<h2>章节标题</h2>
		<p>« %s</p>
		<p>%s</p>
		<p>本站版权所有，%s</p>
	</div></body></html>`, "首页 "+han(110), han(105), han(50))

	cls, err := c.Classify(page, "https://example.com/p", nil)
	require.NoError(t, err)
	require.Equal(t, scriptorium.PageContent, cls.Kind)

	require.Len(t, cls.Segments, 2, "headings and boilerplate lines are stripped")
	assert.Equal(t, han(110), cls.Segments[0], "leading arrow artifact is stripped")
	assert.Equal(t, han(105), cls.Segments[1])
}

func TestClassifier_NavRegionSkipped(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	// Content-sized text inside a nav region must not be selected.
	page := fmt.Sprintf(`<html><body>
		<nav><div>%s</div></nav>
		<ul><li><a href="/ch1.html">第一章</a></li></ul>
	</body></html>`, han(200))

	cls, err := c.Classify(page, "https://example.com/p", nil)
	require.NoError(t, err)
	assert.Equal(t, scriptorium.PageIndex, cls.Kind)
}

func TestClassifier_NextLink(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	t.Run("finds the next marker and resolves it", func(t *testing.T) {
		t.Parallel()

		page := fmt.Sprintf(`<html><body>
			<p>%s</p>
			<a href="/b/1.html">上一页</a>
			<a href="/b/3.html">下一页</a>
		</body></html>`, han(150))

		cls, err := c.Classify(page, "https://example.com/b/2.html", nil)
		require.NoError(t, err)
		require.Equal(t, scriptorium.PageContent, cls.Kind)
		assert.Equal(t, "https://example.com/b/3.html", cls.NextURL)
	})

	t.Run("text containing a previous marker is not next", func(t *testing.T) {
		t.Parallel()

		page := fmt.Sprintf(`<html><body>
			<p>%s</p>
			<a href="/b/1.html">上一页 | 下一页</a>
		</body></html>`, han(150))

		cls, err := c.Classify(page, "https://example.com/b/2.html", nil)
		require.NoError(t, err)
		assert.Empty(t, cls.NextURL)
	})

	t.Run("no pagination means no next URL", func(t *testing.T) {
		t.Parallel()

		page := fmt.Sprintf(`<html><body><p>%s</p></body></html>`, han(150))

		cls, err := c.Classify(page, "https://example.com/b/9.html", nil)
		require.NoError(t, err)
		assert.Empty(t, cls.NextURL)
	})
}

func TestClassifier_ExclusionSet(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	exclude := scriptorium.NewURLSet()
	exclude.Add("https://example.com/about.html")

	page := `<html><body>
		<a href="/about.html">关于本站</a>
		<a href="/b/ch1.html">第一章</a>
	</body></html>`

	cls, err := c.Classify(page, "https://example.com/b/", exclude)
	require.NoError(t, err)
	require.Equal(t, scriptorium.PageIndex, cls.Kind)
	require.Len(t, cls.Links, 1)
	assert.Equal(t, "https://example.com/b/ch1.html", cls.Links[0].URL)
}

func TestClassifier_Links(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	page := `<html><body>
		<a href="/a.html">甲</a>
		<a href="/a.html#top">甲再</a>
		<a href="/home.html">首页</a>
		<a href="https://other.example.net/x">off host</a>
		<a href="javascript:void(0)">script</a>
		<a href="mailto:x@example.com">mail</a>
	</body></html>`

	links, err := c.Links(page, "https://example.com/")
	require.NoError(t, err)

	// Links is the raw primitive: nav phrases stay in, but fragments
	// are stripped, duplicates collapse, and off-host and non-HTTP
	// schemes are dropped.
	require.Len(t, links, 2)
	assert.Equal(t, "https://example.com/a.html", links[0].URL)
	assert.Equal(t, "甲", links[0].Text)
	assert.Equal(t, "https://example.com/home.html", links[1].URL)
}

func TestClassifier_InvalidPageURL(t *testing.T) {
	t.Parallel()

	c := goquery.NewClassifier(goquery.DefaultConfig())

	_, err := c.Classify("<html></html>", "://bad", nil)
	require.Error(t, err)
	assert.Equal(t, scriptorium.EINVALID, scriptorium.ErrorCode(err))
}
