package selector

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is the slice of the browser session the resolver needs: live
// JavaScript evaluation and the rendered markup.
type Page interface {
	Evaluate(js string, res interface{}) error
	PageHTML() (string, error)
}

// Strategy defines one way to pull image URLs out of the results page.
type Strategy struct {
	// Name identifies the strategy in logs.
	Name string

	// Type: "javascript", "html_selector", or "custom"
	Type string

	// For Type="javascript": code evaluated in the page, must yield a string array
	JavaScript string

	// For Type="html_selector": CSS selector + attributes tried per element
	Selector   string
	Attributes []string

	// For Type="custom": parser receiving the page HTML
	CustomParser func(html string) ([]string, error)
}

// Resolver tries strategies in priority order and returns the first non-empty
// result. Empty everywhere means the page has nothing extractable yet; that is
// a normal condition, not an error. Retrying is the collector's job.
type Resolver struct {
	strategies []Strategy
}

// NewResolver builds a resolver over the given strategies, or over the
// default Yandex cascade when none are given.
func NewResolver(strategies ...Strategy) *Resolver {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Resolver{strategies: strategies}
}

// Extract runs the cascade against the current page state.
func (r *Resolver) Extract(page Page) []string {
	for _, strategy := range r.strategies {
		urls, err := r.run(strategy, page)
		if err != nil {
			log.Printf("[Selector] Strategy %s failed, trying next: %v", strategy.Name, err)
			continue
		}

		usable := filterUsable(urls)
		if len(usable) > 0 {
			log.Printf("[Selector] Strategy %s yielded %d URLs", strategy.Name, len(usable))
			return usable
		}
	}
	return nil
}

func (r *Resolver) run(strategy Strategy, page Page) ([]string, error) {
	switch strategy.Type {
	case "javascript":
		var urls []string
		if err := page.Evaluate(strategy.JavaScript, &urls); err != nil {
			return nil, err
		}
		return urls, nil

	case "html_selector":
		html, err := page.PageHTML()
		if err != nil {
			return nil, err
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}

		var urls []string
		doc.Find(strategy.Selector).Each(func(i int, sel *goquery.Selection) {
			for _, attr := range strategy.Attributes {
				if v, ok := sel.Attr(attr); ok && v != "" {
					urls = append(urls, v)
					return
				}
			}
			// element without any wanted attribute is skipped, not fatal
		})
		return urls, nil

	case "custom":
		if strategy.CustomParser == nil {
			return nil, fmt.Errorf("custom parser not provided")
		}
		html, err := page.PageHTML()
		if err != nil {
			return nil, err
		}
		return strategy.CustomParser(html)

	default:
		return nil, fmt.Errorf("unknown strategy type: %s", strategy.Type)
	}
}

// filterUsable keeps absolute http(s) URLs and drops avatar thumbnails, which
// Yandex mixes into the result grid.
func filterUsable(raw []string) []string {
	var usable []string
	for _, candidate := range raw {
		parsed, err := url.Parse(candidate)
		if err != nil {
			continue
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			continue
		}
		if parsed.Host == "" {
			continue
		}
		if strings.Contains(strings.ToLower(candidate), "avatar") {
			continue
		}
		usable = append(usable, candidate)
	}
	return usable
}

// DefaultStrategies is the Yandex Images cascade: structured result classes
// first, any img tag second, result links carrying an img_url parameter third,
// and as a last resort opening the first result so the full-size viewer
// renders an MMImage-Origin element for the next extraction pass.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{
			Name: "structured-thumbs",
			Type: "javascript",
			JavaScript: `
				[...document.querySelectorAll('.serp-item__thumb, .SimpleImage, .ContentImage-Image, img.MMImage-Origin')]
				.map(el => el.src || el.getAttribute('data-src') || '')
				.filter(src => src !== '')
			`,
		},
		{
			Name:       "generic-img",
			Type:       "html_selector",
			Selector:   "img",
			Attributes: []string{"src", "data-src"},
		},
		{
			Name:         "link-img-url",
			Type:         "custom",
			CustomParser: parseImgURLLinks,
		},
		{
			// Clicking the first result makes Yandex render the enlarged
			// viewer, whose img.MMImage-Origin the structured strategy picks
			// up on the following poll. Yields nothing by itself.
			Name: "click-first-result",
			Type: "javascript",
			JavaScript: `
				(() => {
					const first = document.querySelector('.serp-item a, .serp-item, .SimpleImage');
					if (first) {
						first.click();
					}
					return [];
				})()
			`,
		},
	}
}

// parseImgURLLinks pulls the full-size image URL out of result links, which
// encode it as an img_url query parameter.
func parseImgURLLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var urls []string
	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !strings.Contains(href, "img_url") {
			return
		}
		parsed, err := url.Parse(href)
		if err != nil {
			return
		}
		if img := parsed.Query().Get("img_url"); img != "" {
			urls = append(urls, img)
		}
	})
	return urls, nil
}
