// Package auth issues and validates HS256 access tokens and verifies bcrypt
// password hashes for the API.
package auth
