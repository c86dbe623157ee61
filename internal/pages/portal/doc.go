// Package portal holds the page objects for the customer portal. Unlike the
// tracker pages, these are built on browser.Verifier: every accessor is a
// verify-style assertion that waits for the page to reach the expected state.
package portal
