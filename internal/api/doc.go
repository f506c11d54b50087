// Package api is the wire contract of the skd.Dashboard gRPC service shared
// by server and client: method names, message types and the JSON codec that
// carries them.
package api
