package web

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// nonContent lists elements that carry no readable text.
const nonContent = "script, style, noscript, iframe, object, embed, img, video, picture, svg, canvas, audio, source, track, map, area, form, label, input, button, select, textarea, progress, ins, applet, header, footer, aside"

// ToMarkdown strips non-content elements from an HTML page and converts the
// rest to Markdown. Non-HTML input is returned unchanged.
func ToMarkdown(page string) (string, error) {
	if !looksLikeHTML(page) {
		return page, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", err
	}
	doc.Find(nonContent).Remove()
	html, err := doc.Html()
	if err != nil {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		// Fall back to the collapsed plain text.
		return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
	}
	return strings.TrimSpace(md), nil
}

func looksLikeHTML(s string) bool {
	head := strings.ToLower(strings.TrimSpace(s))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.Contains(head, "<html") || strings.Contains(head, "<body")
}
