// Package steamapi is the Steam Web API collaborator: player summaries, ban
// records, TF2 playtime, and friends lists.
//
// All calls run on their own goroutine and hand back a Future. The world
// model never blocks on a Future; it polls once per update tick. Failures
// carry the HTTP status via APIError so callers can distinguish expected
// conditions (a 401 on a private friends list) from real trouble.
package steamapi
