// Package api exposes the card store and the study session engine as a
// local JSON API for a presentation layer. It handles routing, request
// validation and response formatting, and maps internal errors to status
// codes without leaking storage details.
package api
