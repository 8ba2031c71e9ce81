// Package textutil provides display and filename helpers for podcast text.
//
// Truncate fits rendered lines to the terminal using display cell widths, so
// wide CJK titles do not overflow. SanitizeFileName and SanitizeToken turn
// episode titles and podcast names into safe path segments; TitleCase tidies
// podcast names for tables.
package textutil
