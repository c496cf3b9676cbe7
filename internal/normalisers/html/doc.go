// Package html provides a Cleaner for post bodies that carry HTML.
// It extracts readable text with goquery, dropping scripts, styles and
// images while keeping block structure as line breaks.
package html
