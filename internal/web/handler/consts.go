package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPrefix is the prefix of every JSON route.
	APIPrefix = "/api"

	// ErrNilDepsFatalLogMsg is used if router or a handler dependency is nil.
	ErrNilDepsFatalLogMsg = "router or handler dependency is nil"
)
