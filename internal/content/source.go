package content

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

//go:embed data/content.yaml
var defaultData []byte

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// Parse decodes YAML content, validates it and renders markdown excerpts.
func Parse(data []byte) (Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Content{}, fmt.Errorf("decode content: %w", err)
	}
	if err := Validate(c); err != nil {
		return Content{}, err
	}
	for i := range c.Posts {
		rendered, err := RenderMarkdown(c.Posts[i].Excerpt)
		if err != nil {
			return Content{}, fmt.Errorf("render post %s: %w", c.Posts[i].ID, err)
		}
		c.Posts[i].ExcerptHTML = rendered
	}
	return c, nil
}

// Default parses the content bundled with the binary.
func Default() (Content, error) {
	return Parse(defaultData)
}

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// Validate checks identifiers, skill levels and categories.
func Validate(c Content) error {
	var errs []error
	ids := map[string]bool{}
	check := func(kind, id string) {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, fmt.Errorf("%s: missing id", kind))
			return
		}
		if ids[id] {
			errs = append(errs, fmt.Errorf("%s %s: duplicate id", kind, id))
		}
		ids[id] = true
	}

	for _, e := range c.Experience {
		check("experience", e.ID)
		if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
			errs = append(errs, fmt.Errorf("experience %s: ends before it starts", e.ID))
		}
	}
	for _, p := range c.Projects {
		check("project", p.ID)
	}
	for _, s := range c.Skills {
		check("skill", s.ID)
		if s.Level < 0 || s.Level > 100 {
			errs = append(errs, fmt.Errorf("skill %s: level %d out of range", s.ID, s.Level))
		}
		if !validCategory(s.Category) {
			errs = append(errs, fmt.Errorf("skill %s: unknown category %q", s.ID, s.Category))
		}
	}
	for _, p := range c.Posts {
		check("post", p.ID)
		if p.Slug == "" {
			errs = append(errs, fmt.Errorf("post %s: missing slug", p.ID))
		}
	}
	return errors.Join(errs...)
}

func validCategory(c SkillCategory) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Static serves a fixed content value.
type Static struct {
	Content Content
}

func (s Static) Load(ctx context.Context) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}
	return s.Content, nil
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Content, error)

func (f SourceFunc) Load(ctx context.Context) (Content, error) {
	return f(ctx)
}
