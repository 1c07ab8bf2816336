package careerhandlers

import "github.com/danielgtaylor/huma/v2"

// HTTPHandlers registers the career API.
type HTTPHandlers interface {
	Register(api huma.API)
}
