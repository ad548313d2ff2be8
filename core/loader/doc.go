// Package loader provides the feature registry of the HTTP server.
//
// Each feature implements the Feature interface and registers its routes when
// loaded:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps features in registration order and loads the enabled ones
// with LoadAll.
package loader
