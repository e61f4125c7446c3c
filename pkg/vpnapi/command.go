package vpnapi

import "net/http"

// Command describes one API operation whose successful response decodes into T.
//
// The command value itself is the JSON request body for non-GET methods. GET
// commands must encode all their parameters in Path and carry no body.
type Command[T any] interface {
	// Method is the fixed HTTP method of the operation.
	Method() string
	// Path is the fixed path, relative to the client's base URL.
	Path() string

	result(*T)
}

// Returns binds a command to its result type. Embed it in a command struct.
type Returns[T any] struct{}

func (Returns[T]) result(*T) {}

// Empty is the result type of commands whose success response has no body.
type Empty struct{}

// Get is embedded by commands issued with the GET method.
type Get struct{}

// Method implements Command.
func (Get) Method() string { return http.MethodGet }

// Post is embedded by commands issued with the POST method.
type Post struct{}

// Method implements Command.
func (Post) Method() string { return http.MethodPost }

// Delete is embedded by commands issued with the DELETE method.
type Delete struct{}

// Method implements Command.
func (Delete) Method() string { return http.MethodDelete }
