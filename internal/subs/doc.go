// Package subs holds the in-memory ASS subtitle collaborator and the timing
// operations applied to it: time- and frame-based line shifting with
// selectable out-of-bounds policies, frame snapping, and syncpoint merging.
//
// Only event timing is owned here. Script info, styles, and every other
// section of a parsed document are preserved verbatim on write; the format
// itself belongs to the authoring tools.
package subs
