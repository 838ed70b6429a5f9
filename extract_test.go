package pagescrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractFrom(t *testing.T, base, markup string, opts ...Option) *ScrapeResult {
	t.Helper()
	res, err := New(opts...).ExtractHTML(base, strings.NewReader(markup))
	require.NoError(t, err)
	return res
}

func TestExtractMetadata_TitleTrimmed(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<html><head>
		<title>  Acme   Corp
 Ltd </title>
		<meta name="Description" content="  We build things.  ">
	</head><body></body></html>`)

	require.NotNil(t, res.Metadata.Title)
	assert.Equal(t, "Acme   Corp\n Ltd", *res.Metadata.Title)
	require.NotNil(t, res.Metadata.Description)
	assert.Equal(t, "We build things.", *res.Metadata.Description)
	assert.Equal(t, "https://example.com/", res.Metadata.URL)
}

func TestExtractMetadata_Absent(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<html><body><p>no head</p></body></html>`)

	assert.Nil(t, res.Metadata.Title)
	assert.Nil(t, res.Metadata.Description)
}

func TestExtractMetadata_PresentButEmpty(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<html><head><title></title>
		<meta name="description" content=""></head></html>`)

	require.NotNil(t, res.Metadata.Title)
	assert.Equal(t, "", *res.Metadata.Title)
	require.NotNil(t, res.Metadata.Description)
	assert.Equal(t, "", *res.Metadata.Description)
}

func TestExtractMetadata_DescriptionWithoutContent(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<html><head>
		<meta name="description">
		<meta name="keywords" content="a,b">
	</head></html>`)

	assert.Nil(t, res.Metadata.Description)
}

func TestExtractLinks_ResolvesRelative(t *testing.T) {
	res := extractFrom(t, "https://example.com/docs/", `<body>
		<a href="../file.pdf">Report</a>
		<a href="guide.html">Guide</a>
		<a href="/about">About</a>
		<a href="https://other.org/x">Other</a>
		<a href="//cdn.example.net/lib.js">CDN</a>
		<a href="?page=2">Next</a>
	</body>`)

	want := []LinkRecord{
		{URL: "https://example.com/file.pdf", Text: "Report"},
		{URL: "https://example.com/docs/guide.html", Text: "Guide"},
		{URL: "https://example.com/about", Text: "About"},
		{URL: "https://other.org/x", Text: "Other"},
		{URL: "https://cdn.example.net/lib.js", Text: "CDN"},
		{URL: "https://example.com/docs/?page=2", Text: "Next"},
	}
	assert.Equal(t, want, res.Links)
}

func TestExtractLinks_SkipsNonNavigable(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<body>
		<a href="javascript:void(0)">JS</a>
		<a href="mailto:hi@example.com">Mail</a>
		<a href="TEL:+1555">Call</a>
		<a href="#">Top</a>
		<a href="">Empty</a>
		<a>No href</a>
		<a href="#section">Section</a>
	</body>`)

	require.Len(t, res.Links, 1)
	assert.Equal(t, "https://example.com/#section", res.Links[0].URL)
}

func TestExtractLinks_KeepsDuplicatesInOrder(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<body>
		<a href="/a">One</a><a href="/b">Two</a><a href="/a">One again</a>
	</body>`)

	require.Len(t, res.Links, 3)
	assert.Equal(t, "https://example.com/a", res.Links[0].URL)
	assert.Equal(t, "https://example.com/b", res.Links[1].URL)
	assert.Equal(t, "https://example.com/a", res.Links[2].URL)
}

func TestExtractLinks_TextFallback(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<body>
		<a href="/icon" aria-label="Home"><img src="x.png"></a>
		<a href="/bare"> </a>
	</body>`)

	require.Len(t, res.Links, 2)
	assert.Equal(t, "Home", res.Links[0].Text)
	assert.Equal(t, "/bare", res.Links[1].Text)
}

func TestExtractLinks_BaseElement(t *testing.T) {
	res := extractFrom(t, "https://example.com/page", `<html><head>
		<base href="https://static.example.com/assets/">
	</head><body><a href="brochure.pdf">Brochure</a></body></html>`)

	require.Len(t, res.Links, 1)
	assert.Equal(t, "https://static.example.com/assets/brochure.pdf", res.Links[0].URL)
}

func TestExtractDownloads_CaseInsensitive(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<body>
		<a href="/files/Annual.PDF">Annual</a>
		<a href="/files/form.doc?v=2">Form</a>
		<a href="/files/sheet.XlsX#tab">Sheet</a>
		<a href="/files/page.html">Page</a>
		<a href="/files/pdf">Not a file</a>
		<a href="/files/archive.tar.gz">Tarball</a>
	</body>`)

	require.Len(t, res.Links, 6)
	require.Len(t, res.Downloads, 3)
	assert.Equal(t, "pdf", res.Downloads[0].Extension)
	assert.Equal(t, "https://example.com/files/Annual.PDF", res.Downloads[0].URL)
	assert.Equal(t, "doc", res.Downloads[1].Extension)
	assert.Equal(t, "xlsx", res.Downloads[2].Extension)
}

func TestExtractDownloads_CustomExtensions(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<body>
		<a href="/a.pdf">A</a><a href="/b.epub">B</a>
	</body>`, WithDownloadExtensions(".EPUB"))

	require.Len(t, res.Downloads, 1)
	assert.Equal(t, "epub", res.Downloads[0].Extension)
}

func TestExtractHeadings_Association(t *testing.T) {
	res := extractFrom(t, "https://example.com/",
		`<body><h1>A</h1><p>x</p><h2>B</h2><p>y</p><h1>C</h1></body>`)

	assert.Equal(t, []HeadingNode{
		{Level: 1, Text: "A", Body: "x"},
		{Level: 2, Text: "B", Body: "y"},
		{Level: 1, Text: "C", Body: ""},
	}, res.Headings)
}

func TestExtractHeadings_ListsAndNesting(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<body>
		<p>Intro before any heading.</p>
		<section>
			<h2>Services</h2>
			<div class="card">
				<p>We offer:</p>
				<ul>
					<li>Design</li>
					<li>Build
						<ul><li>Go</li></ul>
					</li>
				</ul>
			</div>
		</section>
		<section>
			<h3>Contact</h3>
			<div>Call <a href="tel:1">us</a> today.</div>
			<script>var ignored = true;</script>
		</section>
	</body>`)

	require.Len(t, res.Headings, 2)
	assert.Equal(t, HeadingNode{
		Level: 2,
		Text:  "Services",
		Body:  "We offer:\n- Design\n- Build\n- Go",
	}, res.Headings[0])
	assert.Equal(t, HeadingNode{Level: 3, Text: "Contact", Body: "Call us today."}, res.Headings[1])
}

func TestExtractHeadings_HeadingInsideLink(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<body>
		<a href="/post"><h2>Post title</h2></a>
		<p>Summary</p>
	</body>`)

	require.Len(t, res.Headings, 1)
	assert.Equal(t, "Post title", res.Headings[0].Text)
	assert.Equal(t, "Summary", res.Headings[0].Body)
}

func TestAssociate_TwoPointerScan(t *testing.T) {
	blocks := []block{
		{text: "preamble"},
		{level: 2, text: "One"},
		{text: "a"},
		{text: "b"},
		{level: 3, text: "Two"},
		{level: 1, text: "Three"},
		{text: "c"},
	}

	assert.Equal(t, []HeadingNode{
		{Level: 2, Text: "One", Body: "a\nb"},
		{Level: 3, Text: "Two", Body: ""},
		{Level: 1, Text: "Three", Body: "c"},
	}, associate(blocks))
	assert.Empty(t, associate([]block{{text: "only text"}}))
}

func TestExtractHTML_StaticResultHasNoTabs(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<body><div role="tab">Hidden</div></body>`)

	assert.Nil(t, res.Tabs)
	assert.False(t, res.TabsCaptured())
	assert.Equal(t, ModeStatic, res.Mode)
}

func TestExtractMetadata_IgnoresSVGTitle(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<html><body>
		<svg viewBox="0 0 10 10"><title>Menu icon</title></svg>
		<p>No document title here.</p>
	</body></html>`)
	assert.Nil(t, res.Metadata.Title)

	res = extractFrom(t, "https://example.com/", `<html><head><title>Home</title></head><body>
		<svg><title>Search</title></svg>
	</body></html>`)
	require.NotNil(t, res.Metadata.Title)
	assert.Equal(t, "Home", *res.Metadata.Title)
}

func TestExtractHeadings_InsideListItems(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<body>
		<h2>Services</h2>
		<ul>
			<li><h3>Design</h3><p>We draw.</p></li>
			<li><h3>Build</h3><p>We code.</p></li>
		</ul>
	</body>`)

	assert.Equal(t, []HeadingNode{
		{Level: 2, Text: "Services", Body: ""},
		{Level: 3, Text: "Design", Body: "We draw."},
		{Level: 3, Text: "Build", Body: "We code."},
	}, res.Headings)
}

func TestExtractHeadings_InlineTextKeepsPunctuation(t *testing.T) {
	res := extractFrom(t, "https://example.com/", `<body>
		<h2>Contact</h2>
		<div>Call <a href="/c">us</a>, to<b>day</b>.</div>
		<ul><li><p>First</p><p>Second</p></li></ul>
	</body>`)

	require.Len(t, res.Headings, 1)
	assert.Equal(t, "Call us, today.\n- First Second", res.Headings[0].Body)
}

func TestExtractHTML_RejectsRelativeBase(t *testing.T) {
	for _, base := range []string{"page.html", "/docs/", "//example.com/", ""} {
		_, err := New().ExtractHTML(base, strings.NewReader(`<a href="/x.pdf">x</a>`))

		var ee *ExtractionError
		require.ErrorAs(t, err, &ee, "base %q", base)
		assert.Equal(t, base, ee.URL)
	}
}
