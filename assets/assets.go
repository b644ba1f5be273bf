// Package assets embeds the static editor page.
package assets

import _ "embed"

// Viewer is the raw editor page; the server minifies it at startup.
//
//go:embed viewer.html
var Viewer []byte
