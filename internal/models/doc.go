// Package models defines the core domain models for fintrack.
//
// # Ownership
//
// Every record except User belongs to exactly one owner (a User ID). People are
// the owner's contacts, not accounts of their own: a person never signs in.
//
// # Money
//
// Monetary values are carried as signed decimal strings, the way the client
// sends them. They are parsed with money.ParseOrZero at the point of use, so a
// malformed value counts as zero instead of failing a whole computation.
//
// # Derived data
//
// Debt summaries and converted totals are never stored. They are recomputed
// from the current transactions and rate table on every request.
package models
