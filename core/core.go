// Package core has the scoring engine, ranking utilities and recommendation logic.
//
// Scoring functions are pure: they take the candidate, the profile and a
// reference time, and return an explainable MatchScore whose Total is the
// exact sum of its parts.
package core
