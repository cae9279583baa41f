package compliance

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText returns the visible text of an HTML email body. Script, style and
// head content is dropped and block boundaries become whitespace so phrases in
// adjacent paragraphs do not run together. Input without markup is returned
// with whitespace normalised.
func PlainText(body string) (string, error) {
	if !strings.Contains(body, "<") {
		return collapseSpace(body), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML body: %w", err)
	}

	doc.Find("script, style, head, noscript").Remove()
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, div, li, tr, td, th, h1, h2, h3, h4, h5, h6, blockquote").Each(func(i int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return collapseSpace(doc.Text()), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
