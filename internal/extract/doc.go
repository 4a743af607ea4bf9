// Package extract derives structured legal fields from raw page text.
//
// Every field is resolved by an ordered cascade of regular expressions
// evaluated first-match-wins. The cascades are plain data, so adding a
// pattern for a new court's phrasing is a one-line change with a
// one-line test, not a new branch in parsing code.
package extract
