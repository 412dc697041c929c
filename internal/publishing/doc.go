// Package publishing implements the optional publish stage, which mirrors a
// finished entry directory into object storage under
// <prefix>/<entry filename>/<file>.
package publishing
