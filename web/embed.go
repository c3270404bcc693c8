package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed static/css/*.css
var Static embed.FS

// Seed is the reference city loaded into an empty store when no seed
// directory is configured.
//
//go:embed seed/*.csv
var Seed embed.FS
