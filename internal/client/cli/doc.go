// Package cli provides the interactive HydrateMate command-line client.
//
// On start the App restores the persisted session, applies the daily reset
// to guest data and runs a REPL. Available commands depend on the mode:
//
//   - anonymous: register, login, guest
//   - guest: drink, today, profile, history, upgrade, login, logout
//   - signed in: status, logout
//
// Registering or logging in from guest mode moves the guest's data to the
// new account. See App.Run and runREPL.
package cli
