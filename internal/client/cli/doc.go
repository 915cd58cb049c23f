// Package cli provides the interactive sociopedia command-line client.
//
// It wires configuration, the HTTP API client and a small REPL:
//   - register, login, logout
//   - me: fetch the signed-in profile with the stored access token
//
// The access token lives only in process memory and is dropped on logout,
// on exit, or when the server rejects it.
package cli
