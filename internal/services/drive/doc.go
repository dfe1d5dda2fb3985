// Package drive lists and downloads record photos from a Google Drive
// folder.
package drive
