package components

import (
	"bytes"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/yigit/cuetclass/internal/app/models"
)

// markdown renders notice bodies; raw HTML in the source is not passed through
var markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

// NoticeList shows notices newest first, as given
type NoticeList struct {
	Notices []models.Notice
}

type noticeView struct {
	models.Notice
	Body template.HTML
}

// RenderMarkdown converts notice content to HTML
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Render implements Renderer
func (l NoticeList) Render(w io.Writer) error {
	views := make([]noticeView, 0, len(l.Notices))
	for _, n := range l.Notices {
		body, err := RenderMarkdown(n.Content)
		if err != nil {
			return err
		}
		views = append(views, noticeView{Notice: n, Body: body})
	}
	return render(w, "notice_list", views)
}
