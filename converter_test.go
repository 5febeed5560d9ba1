package mdsections_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-mdsections"
)

func newConverter(t *testing.T, mutate func(*mdsections.Config)) *mdsections.Converter {
	t.Helper()
	cfg := mdsections.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	conv, err := mdsections.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return conv
}

func TestAsHTML(t *testing.T) {
	cases := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			name: "sections",
			markdown: `### First section header
some content

### Second section header
some content

### Third section header
some content
`,
			want: `<section data-title="first-section-header">
  <h3 id="first-section-header"><a href="#first-section-header" class="anchor-link">First section header</a></h3>
  <p>some content</p>

</section>
<section data-title="second-section-header">
  <h3 id="second-section-header"><a href="#second-section-header" class="anchor-link">Second section header</a></h3>
  <p>some content</p>

</section>
<section data-title="third-section-header">
  <h3 id="third-section-header"><a href="#third-section-header" class="anchor-link">Third section header</a></h3>
  <p>some content</p>
</section>
`,
		},
		{
			name: "leading content section",
			markdown: `# Unsectionable Header
some content

### Sectionable Header
some content
`,
			want: `<section data-title="content">
  <h1 id="unsectionable-header">Unsectionable Header</h1>
  <p>some content</p>

</section>
<section data-title="sectionable-header">
  <h3 id="sectionable-header"><a href="#sectionable-header" class="anchor-link">Sectionable Header</a></h3>
  <p>some content</p>
</section>
`,
		},
		{
			name: "leading anchored heading is bare",
			markdown: `## Intro
text

### A
x
`,
			want: `<section data-title="content">
  <h2 id="intro">Intro</h2>
  <p>text</p>

</section>
<section data-title="a">
  <h3 id="a"><a href="#a" class="anchor-link">A</a></h3>
  <p>x</p>
</section>
`,
		},
		{
			name: "external links",
			markdown: `[an internal link](/paths)

[an external link](https://www.example.com)
`,
			want: `<p><a href="/paths">an internal link</a></p>

<p><a href="https://www.example.com" target="_blank" rel="noopener noreferrer">an external link</a></p>
`,
		},
		{
			name:     "image wrapped in link",
			markdown: "![an image](https://example.com/image.jpeg)\n",
			want:     "<p><a href=\"https://example.com/image.jpeg\" target=\"_blank\" rel=\"noopener noreferrer\"><img src=\"https://example.com/image.jpeg\" alt=\"an image\" /></a></p>\n",
		},
		{
			name:     "image inside link",
			markdown: "[![pic](a.png)](https://x.org)\n",
			want:     "<p><a href=\"https://x.org\" target=\"_blank\" rel=\"noopener noreferrer\"><img src=\"a.png\" alt=\"pic\" /></a></p>\n",
		},
		{
			name:     "image with empty alt",
			markdown: "![](https://example.com/image.jpeg){: alt=\"\"}\n",
			want:     "<p><img src=\"https://example.com/image.jpeg\" alt=\"\" /></p>\n",
		},
		{
			name:     "no sections",
			markdown: "# Header\nsome content\n",
			want:     "<h1 id=\"header\">Header</h1>\n<p>some content</p>\n",
		},
		{
			name:     "apostrophe heading",
			markdown: "### It's a header\ncontent\n",
			want: `<section data-title="its-a-header">
  <h3 id="its-a-header"><a href="#its-a-header" class="anchor-link">It’s a header</a></h3>
  <p>content</p>
</section>
`,
		},
		{
			name:     "empty input",
			markdown: "",
			want:     "",
		},
	}

	conv := newConverter(t, nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := conv.AsHTML(tc.markdown)
			if err != nil {
				t.Fatalf("AsHTML: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected html\nwant:\n%s\ngot:\n%s", tc.want, got)
			}
		})
	}
}

func TestAsHTML_FencedCode(t *testing.T) {
	conv := newConverter(t, nil)

	got, err := conv.AsHTML("```ruby\nputs 'this should work'\n```\n")
	if err != nil {
		t.Fatalf("AsHTML: %v", err)
	}
	want := `<div class="language-ruby highlighter-rouge"><div class="highlight"><pre class="highlight"><code><span class="nb">puts</span> <span class="s1">'this should work'</span>
</code></pre></div></div>
`
	if got != want {
		t.Fatalf("unexpected code block\nwant: %q\ngot:  %q", want, got)
	}
}

func TestAsHTML_CodeInsideSectionKeepsIndentation(t *testing.T) {
	conv := newConverter(t, nil)

	got, err := conv.AsHTML("### Example\n\n```\nline one\n  line two\n```\n")
	if err != nil {
		t.Fatalf("AsHTML: %v", err)
	}
	if !strings.Contains(got, "\n  <div class=\"highlighter-rouge\">") {
		t.Fatalf("expected wrapper to be indented: %q", got)
	}
	if !strings.Contains(got, "<code>line one\n  line two\n</code>") {
		t.Fatalf("expected code lines untouched: %q", got)
	}
}

func TestAsHTML_SectionLevelAndOwnHost(t *testing.T) {
	conv := newConverter(t, func(cfg *mdsections.Config) {
		cfg.SectionHeadingLevel = 2
		cfg.OwnHost = "www.example.com"
	})

	got, err := conv.AsHTML("## Links\n\n[home](https://www.example.com/) and [away](https://other.org)\n")
	if err != nil {
		t.Fatalf("AsHTML: %v", err)
	}
	want := `<section data-title="links">
  <h2 id="links"><a href="#links" class="anchor-link">Links</a></h2>

  <p><a href="https://www.example.com/">home</a> and <a href="https://other.org" target="_blank" rel="noopener noreferrer">away</a></p>
</section>
`
	if got != want {
		t.Fatalf("unexpected html\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestAsHTML_IsDeterministicAndConcurrent(t *testing.T) {
	conv := newConverter(t, nil)
	source := "# Intro\n\nlead\n\n### One\n\n- a\n- b\n\n### Two\n\n![pic](/p.png)\n"

	want, err := conv.AsHTML(source)
	if err != nil {
		t.Fatalf("AsHTML: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := conv.AsHTML(source)
			if err != nil || got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Fatalf("concurrent conversion diverged: %q", got)
	}
}

func TestAsHTML_InvalidUTF8IsRenderError(t *testing.T) {
	conv := newConverter(t, nil)

	out, err := conv.AsHTML("# bad \xff\n")
	if err == nil {
		t.Fatalf("expected render error")
	}
	if out != "" {
		t.Fatalf("expected no partial output, got %q", out)
	}
	if !mdsections.IsRenderError(err) {
		t.Fatalf("expected IsRenderError, got %v", err)
	}
}

func TestConvert_CancelledContext(t *testing.T) {
	conv := newConverter(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := conv.Convert(ctx, []byte("# x\n")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := mdsections.DefaultConfig()
	cfg.SectionHeadingLevel = 9

	_, err := mdsections.New(cfg)
	if !mdsections.IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
	if !errors.Is(err, mdsections.ErrSectionHeadingLevelInvalid) {
		t.Fatalf("expected ErrSectionHeadingLevelInvalid, got %v", err)
	}
	if mdsections.IsRenderError(err) {
		t.Fatalf("config error must not look like a render error")
	}
}

func TestNew_ZeroAnchorLevelAnchorsFromH2(t *testing.T) {
	conv := newConverter(t, func(cfg *mdsections.Config) {
		cfg.AnchorMinLevel = 0
	})

	got, err := conv.AsHTML("# Top\n\n## Sub\n")
	if err != nil {
		t.Fatalf("AsHTML: %v", err)
	}
	want := "<h1 id=\"top\">Top</h1>\n\n<h2 id=\"sub\"><a href=\"#sub\" class=\"anchor-link\">Sub</a></h2>\n"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestConverter_LogsConversions(t *testing.T) {
	var buf bytes.Buffer
	provider, err := mdsections.NewLoggerProvider(mdsections.LoggingConfig{Provider: "console", Level: "debug"}, &buf)
	if err != nil {
		t.Fatalf("NewLoggerProvider: %v", err)
	}

	cfg := mdsections.DefaultConfig()
	conv, err := mdsections.New(cfg, mdsections.WithLoggerProvider(provider))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := conv.AsHTML("### One\n\ntext\n"); err != nil {
		t.Fatalf("AsHTML: %v", err)
	}

	line := buf.String()
	for _, fragment := range []string{"markdown.convert.completed", "module=mdsections.converter", "sections=1", "section_level=3"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %s in log %q", fragment, line)
		}
	}
}

func TestConverter_DocumentsFS(t *testing.T) {
	conv := newConverter(t, nil)
	svc, err := conv.DocumentsFS(fstest.MapFS{
		"guide.md": {Data: []byte("---\ntitle: Guide\n---\n### Install\n\nRun it.\n")},
	})
	if err != nil {
		t.Fatalf("DocumentsFS: %v", err)
	}

	doc, err := svc.Load(context.Background(), "guide.md", mdsections.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.FrontMatter.Title != "Guide" || doc.Locale != "en" {
		t.Fatalf("unexpected document %+v", doc.FrontMatter)
	}
	want := "<section data-title=\"install\">\n  <h3 id=\"install\"><a href=\"#install\" class=\"anchor-link\">Install</a></h3>\n\n  <p>Run it.</p>\n</section>\n"
	if string(doc.BodyHTML) != want {
		t.Fatalf("unexpected BodyHTML %q", doc.BodyHTML)
	}
}

func TestConverter_DocumentEntriesCarryPath(t *testing.T) {
	var buf bytes.Buffer
	provider, err := mdsections.NewLoggerProvider(mdsections.LoggingConfig{Provider: "console", Level: "debug"}, &buf)
	if err != nil {
		t.Fatalf("NewLoggerProvider: %v", err)
	}
	conv, err := mdsections.New(mdsections.DefaultConfig(), mdsections.WithLoggerProvider(provider))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	svc, err := conv.DocumentsFS(fstest.MapFS{
		"guide.md": {Data: []byte("### Install\n\nRun it.\n")},
	})
	if err != nil {
		t.Fatalf("DocumentsFS: %v", err)
	}
	if _, err := svc.Load(context.Background(), "guide.md", mdsections.LoadOptions{}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var completed string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "markdown.convert.completed") {
			completed = line
		}
	}
	for _, fragment := range []string{"markdown_path=guide.md", "locale=en", "module=mdsections.converter"} {
		if !strings.Contains(completed, fragment) {
			t.Fatalf("expected %s in %q", fragment, completed)
		}
	}
}
