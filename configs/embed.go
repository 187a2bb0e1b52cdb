// Package configs provides embedded configuration templates for CityGuide.
//
// Templates are embedded at build time using Go's //go:embed directive,
// so they are available in all distributions. `cityguide init` writes
// ConfigTemplate as a starting cityguide.yaml.
//
// Configuration precedence (see internal/config.Load):
//  1. Hardcoded defaults
//  2. cityguide.yaml in the config directory
//  3. Environment variables (CITYGUIDE_*)
package configs

import _ "embed"

// ConfigTemplate is the commented example configuration written by
// `cityguide init`.
//
//go:embed cityguide.example.yaml
var ConfigTemplate string
