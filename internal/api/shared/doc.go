// Package shared holds the request decoding, response writing and trace
// helpers used by the API handlers and middleware.
package shared
