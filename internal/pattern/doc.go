// Package pattern renders user-defined display patterns against records.
//
// A pattern is literal text with {field} placeholders. Rendering substitutes
// each placeholder with the record's value for that field, or with the
// sentinel <<field>> when the record has no such field, so users can see
// which names they got wrong. Braces are not nestable and there is no escape
// syntax; an unbalanced brace makes the whole pattern invalid.
//
// Patterns drive search result lines, episode listings, and download file
// names. Compile once and call Render per record when the same pattern is
// applied repeatedly.
package pattern
