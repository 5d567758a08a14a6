// Package exportstrings is the compiled-in catalog of titles and descriptions
// for the synthetic document bundles (description, other and consent
// documents) that exports add next to real sessions.
package exportstrings
