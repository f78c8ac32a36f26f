package news

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanHTML strips markup from an HTML fragment and collapses whitespace,
// leaving plain article text
func CleanHTML(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}

	doc.Find("script, style").Remove()

	text := doc.Text()
	text = strings.ReplaceAll(text, " ", " ")

	return strings.Join(strings.Fields(text), " ")
}
