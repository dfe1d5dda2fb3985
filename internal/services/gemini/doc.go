// Package gemini turns record sleeve photos into Instagram sales captions
// using the Gemini vision API.
package gemini
