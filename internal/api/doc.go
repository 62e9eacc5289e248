// Package api serves the poster and video workflow over HTTP. It translates
// requests into workflow intents, validates request bodies and maps internal
// errors to status codes and safe messages.
//
// Every workflow route sits behind the access middleware, which answers 403
// until an API key has been selected through POST /api/access.
package api
