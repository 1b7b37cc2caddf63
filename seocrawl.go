// Package seocrawl discovers, fetches, reviews and caches the pages of a
// small-business website so they can be analyzed for SEO.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, trafilatura/).
package seocrawl
