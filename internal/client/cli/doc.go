// Package cli provides the interactive mynote command-line client.
//
// It wires configuration, the local SQLite store, the Identity Toolkit
// provider, the auth use cases and an interactive REPL standing in for the
// sign-up, login and home screens.
//
// Commands:
//   - register  create an account and send the verification email
//   - login     sign in (only verified accounts are let in)
//   - resend    send the verification email again
//   - logout    end the session
//   - status    show who is signed in
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
