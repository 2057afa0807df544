package liaoxuefeng

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/brogergvhs/tocpdf/internal/fetch"
	"github.com/brogergvhs/tocpdf/internal/providers"
)

const documentTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <link rel="stylesheet" href="%s">
    <link rel="stylesheet" href="%s">
    <link rel="stylesheet" href="%s">
</head>
<body>
%s
</body>
</html>

`

// stylesheet links are the 2nd, 3rd and 4th <link> of the page
var stylesheetLinks = []int{1, 2, 3}

func (s *Site) ParseBody(resp *fetch.Response) ([]byte, error) {
	out, err := s.transform(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", providers.ErrTransform, resp.URL, err)
	}

	return out, nil
}

func (s *Site) transform(resp *fetch.Response) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}

	content := doc.Find(contentClass).First()
	if content.Length() == 0 {
		return nil, ErrContentNotFound
	}

	css, err := s.stylesheets(doc)
	if err != nil {
		return nil, err
	}

	content.Find("video").Remove()

	h4 := doc.Find("h4").First()
	if h4.Length() == 0 {
		return nil, ErrTitleNotFound
	}
	title := h4.Text()
	content.PrependNodes(titleBlock(title))

	s.log.Infof("Parsing %s\n", strings.TrimSpace(title))

	s.absImageSources(content)

	body, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, fmt.Errorf("serializing content: %w", err)
	}

	return []byte(fmt.Sprintf(documentTemplate, css[0], css[1], css[2], body)), nil
}

func (s *Site) stylesheets(doc *goquery.Document) ([]string, error) {
	links := doc.Find("link")
	if links.Length() <= stylesheetLinks[len(stylesheetLinks)-1] {
		return nil, fmt.Errorf("%w: page has %d <link> elements", ErrStylesheetsNotFound, links.Length())
	}

	out := make([]string, 0, len(stylesheetLinks))
	for _, i := range stylesheetLinks {
		href, _ := links.Eq(i).Attr("href")
		out = append(out, stdhtml.EscapeString(s.src.Resolve(href)))
	}

	return out, nil
}

// titleBlock builds <center><h1>title</h1></center>.
func titleBlock(title string) *html.Node {
	center := &html.Node{Type: html.ElementNode, Data: "center", DataAtom: atom.Center}
	h1 := &html.Node{Type: html.ElementNode, Data: "h1", DataAtom: atom.H1}
	h1.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	center.AppendChild(h1)

	return center
}

// absImageSources rewrites the src attribute of every image; other
// attributes such as data-src are left as they are.
func (s *Site) absImageSources(content *goquery.Selection) {
	content.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if strings.HasPrefix(src, "http") {
			return
		}
		img.SetAttr("src", s.src.Resolve(src))
	})
}
