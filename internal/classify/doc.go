// Package classify decides which archived URLs are worth reporting.
//
// Classification runs in two stages:
//  1. Noise suppression: static assets (images, stylesheets, fonts, media)
//     are dropped before any category rule is consulted.
//  2. Category rules: an ordered list of (category, pattern) pairs is
//     evaluated for each remaining URL and the first match wins.
//
// Design decision: Rules are an ordered slice rather than a map, because
// precedence between overlapping categories is part of the contract. A URL
// such as "/secret/app.yml" must land in Configuration (rule 1), never in
// Keys/Secrets (rule 5).
//
// All matching is case-insensitive. Extension rules are anchored at the end
// of the URL or immediately before a query string; the Keys/Secrets rule is
// an unanchored substring search.
package classify
