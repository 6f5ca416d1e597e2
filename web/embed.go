package web

import "embed"

// StaticFS embeds the single-page client (markup, script, styles).
//
//go:embed static/*
var StaticFS embed.FS
