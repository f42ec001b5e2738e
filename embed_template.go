package main

import (
	"embed"
)

// embeddedTemplate is the default docsify site written by init.
//
//go:embed all:template
var embeddedTemplate embed.FS
