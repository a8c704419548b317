// Package web embeds the dashboard's static assets for serving from the Go
// binary.
//
// Usage in the API server:
//
//	import "github.com/seenimoa/envirorank/web"
//	fs := web.StaticFS() // returns io/fs.FS rooted at static/
package web

import (
	"embed"
	"io/fs"
	"log"
)

//go:embed static
var static embed.FS

// StaticFS returns a filesystem rooted at the embedded static/ directory.
// This is ready to use with http.FileServerFS or http.FS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		log.Fatalf("web.StaticFS: %v", err)
	}
	return sub
}
