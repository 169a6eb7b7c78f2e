// Package client contains the client-side building blocks that talk to the
// HydrateMate backend and bootstrap local persistence.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Login, Register, MigrateGuestData and Me.
//  2. A JSON-over-HTTP implementation (see HTTPClient) built on
//     netx.Fetcher. Login, Register and MigrateGuestData retry only
//     transport failures so that every HTTP status reaches the caller once;
//     Me uses the strict policy that also retries non-2xx and non-JSON
//     responses.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations, OpenStore)
//     wiring an SQLite database with embedded goose migrations, or one of
//     the file and memory stores.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors that callers match with
// errors.Is: ErrUnavailable (retries exhausted on transport failures),
// ErrMalformedResponse (2xx with an empty, non-JSON or incomplete body) and
// ErrUnauthorized (401). Any other non-2xx status is an *APIError carrying
// the status and the body's "error" and "message" fields.
//
// All operations accept context.Context and honor cancellation.
package client
