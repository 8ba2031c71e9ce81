// Package nsnorm rewrites XML namespace prefixes out of element names.
//
// Generic XML-to-value converters key elements by their local name, so
// <itunes:author> and <googleplay:author> collapse into a single "author"
// entry. Normalize replaces the prefix separator of every start and end tag
// with a caller-chosen token (Placeholder in podkit), turning the prefix into
// an ordinary part of the name. Query patterns are rewritten with RewriteName
// so "itunes:author" still addresses the same element after conversion.
//
// The package only touches element names. Text, attributes, comments,
// processing instructions and whitespace are copied byte for byte, which keeps
// Normalize an identity on documents without prefixed names. Events exposes
// the underlying event stream for callers that want to inspect documents
// without rewriting them.
package nsnorm
