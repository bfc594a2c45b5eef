// Package cli provides the interactive gateway client.
//
// It wires configuration, local storage, the HTTP transport, the query
// engine, the error notifier and the session store, then runs the startup
// bootstrap and a REPL. Typical flow: resolve the existing session (the
// app lands on /dashboard or /login), then execute user commands.
//
// Commands: login, logout, whoami, update, status, help, exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See NewApp, App.Bootstrap and runREPL for details.
package cli
