// Package videogen provides the HTTP client for the video-generation
// service and its frame-extraction endpoint.
package videogen
