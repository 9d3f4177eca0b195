// Package scriptorium harvests hierarchical book sites (authors, books,
// chapters, paginated text pages) into a relational store. It classifies
// arbitrary pages as prose content or navigation indexes without prior
// knowledge of the site's markup, and traverses the link graph exactly
// once per page so interrupted runs can resume safely.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// goquery/, rod/).
package scriptorium
