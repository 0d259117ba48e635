package html

// CSSFetcher retrieves the text content of an external stylesheet referenced
// by a `<link rel="stylesheet">` href. It is supplied by the caller
// (typically pkg/resource) so this package stays free of any network/
// filesystem dependency.
type CSSFetcher func(href string) (string, error)

// ParseWithFetcher parses htmlContent exactly as Parse does, then walks the
// resulting tree for `<link rel="stylesheet" href="...">` elements and
// fetches each one via cssFetcher, appending the fetched text to
// doc.Stylesheets alongside any inline `<style>` text Parse already
// collected. A nil cssFetcher or a fetch error for one link is not fatal —
// external stylesheets are best-effort, matching how Stylesheets already
// tolerates an empty slice.
func ParseWithFetcher(htmlContent string, cssFetcher CSSFetcher) (*Document, error) {
	doc, err := Parse(htmlContent)
	if err != nil {
		return nil, err
	}
	if cssFetcher == nil {
		return doc, nil
	}
	collectStylesheetLinks(doc.Root, cssFetcher, doc)
	return doc, nil
}

func collectStylesheetLinks(n *Node, fetch CSSFetcher, doc *Document) {
	if n == nil {
		return
	}
	if n.Type == ElementNode && n.TagName == "link" {
		rel, _ := n.GetAttribute("rel")
		href, hasHref := n.GetAttribute("href")
		if rel == "stylesheet" && hasHref && href != "" {
			if css, err := fetch(href); err == nil {
				doc.Stylesheets = append(doc.Stylesheets, css)
			}
		}
	}
	for _, child := range n.Children {
		collectStylesheetLinks(child, fetch, doc)
	}
}
