// Package template defines the dialect-agnostic seam the resolver renders
// through. Engines compile a source string and render it against the input
// object; dialect implementations live in the handlebars and pongo
// subpackages and are selected by name through a Registry.
package template
