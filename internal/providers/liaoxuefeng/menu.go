package liaoxuefeng

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/brogergvhs/tocpdf/internal/fetch"
)

func (s *Site) ParseMenu(resp *fetch.Response) ([]string, error) {
	s.log.Infof("Fetching chapter list\n")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing menu page: %w", err)
	}

	menus := doc.Find(menuClass)
	if menus.Length() <= menuIndex {
		return nil, fmt.Errorf("%w: %d %q elements on %s", ErrMenuNotFound, menus.Length(), menuClass, resp.URL)
	}

	var urls []string
	menus.Eq(menuIndex).Find("li").Each(func(_ int, li *goquery.Selection) {
		href, ok := li.Find("a").First().Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			s.log.Debugf("Skipping menu item without link: %q\n", strings.TrimSpace(li.Text()))
			return
		}

		urls = append(urls, s.src.Resolve(href))
	})

	s.log.Debugf("Menu lists %d chapters\n", len(urls))

	return urls, nil
}
