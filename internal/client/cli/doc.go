// Package cli provides the interactive SKD tracker command-line client.
//
// It wires configuration, the dashboard gRPC client and a REPL. Typical
// flow: prompt for credentials, start a background connectivity watcher,
// and execute user commands until "exit".
//
// Key features:
//   - Register / Login / two-step Logout / password change
//   - Record, list, edit and delete SKD attempts (by ordinal)
//   - Admin: account list, role and password changes, account and bulk
//     attempt deletion, full data reset, CSV/XLSX export
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
