// Package middleware provides HTTP middleware for the flashdeck API.
package middleware
