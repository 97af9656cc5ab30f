// Package templates embeds the HTML templates for the web shell.
package templates

import "embed"

//go:embed base.html pages/*.html partials/*.html
var FS embed.FS
