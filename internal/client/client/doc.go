// Package client talks to the SKD tracker dashboard over gRPC.
//
// # Overview
//
//  1. Client is the transport-agnostic contract the CLI depends on: one
//     method per dashboard action.
//  2. GRPCClient implements it over a grpc.ClientConn using the JSON codec
//     from package api. It keeps the session token handed out by Login and
//     attaches it to every call through an interceptor.
//
// # Error Handling
//
// Business failures (wrong password, forbidden action, bad input) come back
// as api.Outcome values with OK=false. Transport failures are mapped to the
// sentinel errors ErrUnavailable and ErrUnauthorized; match them with
// errors.Is.
//
// A GRPCClient may be used from several goroutines.
package client
