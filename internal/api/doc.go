// Package api exposes card registration and review over HTTP. Handlers
// decode and validate requests, call the card review and auth services, and
// map domain errors to status codes with messages safe to show clients.
package api
