// Package api defines the fintrack RPC surface: request and response messages,
// procedure names, and Connect handler and client constructors for each service.
//
// Messages are plain Go structs carried with a JSON codec, so any Connect
// client (or curl) can call the services:
//
//	curl -H 'Content-Type: application/json' -H 'Authorization: Bearer ...' \
//	  -d '{}' http://localhost:8080/fintrack.v1.PeopleService/GetDebts
package api

import (
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"
)

// codecName replaces Connect's protojson codec, which only handles proto messages.
const codecName = "json"

// Codec marshals messages as JSON.
type Codec struct{}

func (Codec) Name() string { return codecName }

func (Codec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (Codec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

// routes dispatches a service's procedures by exact path.
type routes map[string]http.Handler

func (r routes) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := r[req.URL.Path]; ok {
		h.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}
