package webui

import (
	"embed"
	"io/fs"
)

//go:embed static
var rawStatic embed.FS

//go:embed template
var templates embed.FS

var staticData = must(fs.Sub(rawStatic, "static"))
