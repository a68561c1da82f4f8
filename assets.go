// Package portal embeds the static web assets served by the HTTP layer.
package portal

import "embed"

//go:embed web/static
var StaticFS embed.FS
