// Package incident provides the business boundary for forcewatch's incident
// catalog. It defines the domain models, the citation classifier, the
// in-memory aggregator that joins flat rows into nested incident views, the
// Store interface (persistence), and the Service that ties them together.
package incident
