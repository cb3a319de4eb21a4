package http

import (
	"net/http"

	"stackpad/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return jsonHandlerStatus(fn, http.StatusOK)
}

// JSONHandlerCreated is JSONHandler with a 201 on success, for create endpoints
func JSONHandlerCreated[T any](fn func(*http.Request, T) (any, error)) Handler {
	return jsonHandlerStatus(fn, http.StatusCreated)
}

func jsonHandlerStatus[T any](fn func(*http.Request, T) (any, error), status int) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return Response{Status: status, Body: out}
	})
}

// JSONHandlerNoBody calls fn without parsing a request body and wraps the result
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}
