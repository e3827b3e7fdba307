// Package web embeds the single-page client served at the site root.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var content embed.FS

// Static returns the client assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err) // the embedded directory is fixed at build time
	}
	return sub
}

// IndexHandler serves index.html.
func IndexHandler(fsys fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, fsys, "index.html")
	}
}

// AssetHandler serves files below /static/.
func AssetHandler(fsys fs.FS) http.Handler {
	return http.StripPrefix("/static/", http.FileServerFS(fsys))
}
