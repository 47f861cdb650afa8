// Package render turns story markdown into HTML.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/storyhub-org/storyhub/pkg/model"
)

// Raw HTML in markdown is not rendered; goldmark replaces it with a comment.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Markdown converts src to HTML.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

//go:embed templates/*.html
var templates embed.FS

var pageTmpl = template.Must(template.New("story.html").Funcs(template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2 January 2006")
	},
}).ParseFS(templates, "templates/story.html"))

// StoryPage is the data behind the public story page.
type StoryPage struct {
	Story       *model.Story
	Storyteller string
	Body        template.HTML
	BaseURL     string
}

// NewStoryPage renders the story content for the page.
func NewStoryPage(s *model.Story, storyteller, baseURL string) (*StoryPage, error) {
	body, err := Markdown(s.Content)
	if err != nil {
		return nil, err
	}
	return &StoryPage{Story: s, Storyteller: storyteller, Body: body, BaseURL: baseURL}, nil
}

func (p *StoryPage) Write(w io.Writer) error {
	return pageTmpl.Execute(w, p)
}
