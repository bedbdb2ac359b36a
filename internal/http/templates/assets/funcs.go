// Package assets provides template helpers for static asset URLs.
package assets

import (
	"html/template"

	httpassets "github.com/target/jobtracker-ui/internal/http/assets"
)

// Options configures asset-related template helpers.
type Options struct {
	Resolver *httpassets.AssetResolver
	DevMode  bool
}

// Funcs returns the asset helper set.
func Funcs(opts Options) template.FuncMap {
	return template.FuncMap{
		"asset": func(logicalName string) string {
			return httpassets.ResolveAsset(opts.Resolver, logicalName, opts.DevMode)
		},
	}
}
