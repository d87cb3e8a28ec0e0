package web

import "embed"

// Templates embeds the console pages and the HTML used for PDF reports.
//
//go:embed templates/layouts/*.html templates/partials/*.html templates/pages/*.html templates/reports/*.html
var Templates embed.FS

// Static embeds static assets.
//
//go:embed static/**/*
var Static embed.FS
