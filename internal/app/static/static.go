// Package static embeds the browser assets served under /static.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed assets
var assets embed.FS

// FS returns the asset tree rooted at the assets directory
func FS() http.FileSystem {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return http.FS(sub)
}
