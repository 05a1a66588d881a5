package service

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/moodlog/internal/model"
)

var audioSrcPattern = regexp.MustCompile(`^https?://`)

// JournalRenderer 将日记 Markdown 渲染为经过清洗的 HTML
type JournalRenderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewJournalRenderer 构造渲染器，语音附件仅允许 http(s) 地址。
func NewJournalRenderer() *JournalRenderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("audio")
	policy.AllowAttrs("controls", "preload").OnElements("audio")
	policy.AllowAttrs("src").Matching(audioSrcPattern).OnElements("audio")
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^journal-[a-z-]+$`)).OnElements("div", "section")

	return &JournalRenderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
			goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps(), goldmarkhtml.WithXHTML()),
		),
		policy: policy,
	}
}

// RenderMarkdown 渲染一段 Markdown
func (r *JournalRenderer) RenderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return string(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// Render 渲染整篇日记：正文、认知重构模板字段以及语音附件。
func (r *JournalRenderer) Render(entry model.JournalEntry) (string, error) {
	var b strings.Builder

	body, err := r.RenderMarkdown(entry.Content)
	if err != nil {
		return "", err
	}
	b.WriteString(body)

	if meta := entry.Meta; meta != nil {
		sections := []struct{ label, value string }{
			{"Event", meta.Event},
			{"Thought", meta.Thought},
			{"Reframe", meta.Reframe},
		}
		for _, section := range sections {
			if strings.TrimSpace(section.value) == "" {
				continue
			}
			rendered, err := r.RenderMarkdown(section.value)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, `<section class="journal-%s"><h4>%s</h4>%s</section>`,
				strings.ToLower(section.label), section.label, rendered)
		}
	}

	if uri := strings.TrimSpace(entry.AudioURI); uri != "" {
		fmt.Fprintf(&b, `<audio controls="controls" preload="none" src="%s"></audio>`, html.EscapeString(uri))
	}

	return r.policy.Sanitize(b.String()), nil
}
