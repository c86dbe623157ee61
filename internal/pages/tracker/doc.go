// Package tracker holds the page objects for the issue-tracker application:
// the header bar, the login and registration forms, the account page and the
// public user profile. Each page object keeps its selectors in one table and
// exposes lazy locators plus the few actions the scenarios need.
package tracker
