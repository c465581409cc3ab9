package core

import "strings"

const (
	SSROutlet  = "<!--ssr-outlet-->"
	HeadOutlet = "<!--head-outlet-->"
)

type RenderedPage struct {
	Body string
	Head string
}

// InjectPage places the rendered body and head into the index.html shell.
// Shells without outlets fall back to the mount element and </head>.
func InjectPage(shell string, page RenderedPage, mountID string) string {
	html := shell

	switch {
	case strings.Contains(html, HeadOutlet):
		html = strings.Replace(html, HeadOutlet, page.Head, 1)
	case page.Head != "":
		html = strings.Replace(html, "</head>", page.Head+"</head>", 1)
	}

	if strings.Contains(html, SSROutlet) {
		return strings.Replace(html, SSROutlet, page.Body, 1)
	}

	if mountID == "" {
		return html
	}
	empty := `<div id="` + mountID + `"></div>`
	return strings.Replace(html, empty, `<div id="`+mountID+`">`+page.Body+`</div>`, 1)
}
