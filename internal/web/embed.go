package web

import "embed"

// templatesFS embeds the HTML templates rendered by the server.
//
//go:embed templates/*.html
var templatesFS embed.FS
