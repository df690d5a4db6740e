// Package imagegen provides the HTTP client for the image-generation
// service, including the edit semantics the composite engine relies on.
package imagegen
