// Package static embeds the browser chat client served at the root path.
package static

import (
	"embed"
)

//go:embed index.html
var files embed.FS

// Index returns the raw chat page bytes. The file is embedded at compile
// time, so the read cannot fail at runtime.
func Index() []byte {
	data, err := files.ReadFile("index.html")
	if err != nil {
		panic(err)
	}
	return data
}
