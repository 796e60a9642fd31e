// Package assets provides the page templates compiled into the binary.
//
// Templates are plain HTML files under templates/ containing the {body}
// placeholder once. They are written out by the init command as a
// starting point; rendering always reads the template from disk.
//
// Template names are validated to prevent path traversal.
package assets
