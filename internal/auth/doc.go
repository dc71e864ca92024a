// Package auth manages the publish stage's OAuth credential record.
//
// The record (access/refresh token pair) lives in a JSON file. A missing
// record halts the publish stage before any catalog enumeration; a token
// refresh triggered by an API call rewrites the full record synchronously
// before that call's result reaches the caller.
package auth
