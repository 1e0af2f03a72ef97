package clipper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"menu-planner/internal/menu"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoDish is returned when a page has no usable dish name.
var ErrNoDish = errors.New("no dish found on page")

// Clipper turns recipe web pages into dish drafts.
type Clipper struct {
	client *http.Client
}

// NewClipper creates a Clipper. A nil client gets a 15 second timeout.
func NewClipper(client *http.Client) *Clipper {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Clipper{client: client}
}

// Clip fetches url and extracts a dish from it. The dish is not added to any
// catalog.
func (c *Clipper) Clip(ctx context.Context, url string) (menu.Dish, error) {
	doc, err := c.fetch(ctx, url)
	if err != nil {
		return menu.Dish{}, fmt.Errorf("failed to fetch content: %w", err)
	}
	return extractDish(doc)
}

func (c *Clipper) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, nav, footer, iframe, .ads, #ads").Remove()
	return doc, nil
}

func extractDish(doc *goquery.Document) (menu.Dish, error) {
	name := firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		clean(doc.Find("h1").First().Text()),
		clean(doc.Find("title").First().Text()),
	)
	if name == "" {
		return menu.Dish{}, ErrNoDish
	}
	return menu.NewDish(name, extractMaterials(doc), nil, extractTags(doc)), nil
}

func extractMaterials(doc *goquery.Document) []string {
	materials := collectText(doc.Find(`[itemprop="recipeIngredient"]`))
	if len(materials) > 0 {
		return materials
	}
	return collectText(doc.Find(`[class*="ingredient"] li, [id*="ingredient"] li`))
}

func extractTags(doc *goquery.Document) []string {
	var tags []string
	doc.Find(`meta[property="article:tag"]`).Each(func(_ int, s *goquery.Selection) {
		if v := clean(s.AttrOr("content", "")); v != "" {
			tags = append(tags, v)
		}
	})
	if len(tags) > 0 {
		return dedupe(tags)
	}
	for _, k := range strings.Split(metaContent(doc, `meta[name="keywords"]`), ",") {
		if k = clean(k); k != "" {
			tags = append(tags, k)
		}
	}
	return dedupe(tags)
}

func collectText(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := clean(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return dedupe(out)
}

func metaContent(doc *goquery.Document, selector string) string {
	return clean(doc.Find(selector).First().AttrOr("content", ""))
}

// clean collapses runs of whitespace.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
