package markdown

import (
	"bytes"
	"time"

	"github.com/adrg/frontmatter"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-mdsections/internal/slug"
	"github.com/goliatone/go-mdsections/pkg/interfaces"
)

// FrontMatterErrorCode tags documents whose metadata block cannot be decoded.
const FrontMatterErrorCode = "MARKDOWN_FRONTMATTER_INVALID"

// ParseFrontMatter splits source into metadata and markdown body. Documents
// without a front matter block return an empty FrontMatter and the source
// unchanged.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, goerrors.Wrap(err, goerrors.CategoryValidation, "parse front matter").
			WithTextCode(FrontMatterErrorCode)
	}

	return meta.frontMatter(), body, nil
}

// BuildDocument assembles a Document from a file's raw bytes. BodyHTML stays
// empty until the document is rendered.
func BuildDocument(path, locale string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		Locale:       locale,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title    string         `yaml:"title" toml:"title" json:"title"`
	Slug     string         `yaml:"slug" toml:"slug" json:"slug"`
	Summary  string         `yaml:"summary" toml:"summary" json:"summary"`
	Template string         `yaml:"template" toml:"template" json:"template"`
	Tags     []string       `yaml:"tags" toml:"tags" json:"tags"`
	Author   string         `yaml:"author" toml:"author" json:"author"`
	Date     time.Time      `yaml:"date" toml:"date" json:"date"`
	Draft    bool           `yaml:"draft" toml:"draft" json:"draft"`
	Custom   map[string]any `yaml:",inline" toml:"-" json:"-"`
}

// frontMatter converts the decoded envelope, deriving a slug from the title
// when the author did not set one.
func (env frontMatterEnvelope) frontMatter() interfaces.FrontMatter {
	docSlug := env.Slug
	if docSlug == "" && env.Title != "" {
		docSlug = slug.Slugify(env.Title)
	}

	custom := make(map[string]any, len(env.Custom))
	raw := make(map[string]any, len(env.Custom)+8)
	for key, value := range env.Custom {
		custom[key] = value
		raw[key] = value
	}

	set := func(key string, value any, present bool) {
		if present {
			raw[key] = value
		}
	}
	set("title", env.Title, env.Title != "")
	set("slug", docSlug, docSlug != "")
	set("summary", env.Summary, env.Summary != "")
	set("template", env.Template, env.Template != "")
	set("tags", append([]string(nil), env.Tags...), len(env.Tags) > 0)
	set("author", env.Author, env.Author != "")
	set("date", env.Date, !env.Date.IsZero())
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:    env.Title,
		Slug:     docSlug,
		Summary:  env.Summary,
		Template: env.Template,
		Tags:     append([]string(nil), env.Tags...),
		Author:   env.Author,
		Date:     env.Date,
		Draft:    env.Draft,
		Custom:   custom,
		Raw:      raw,
	}
}
