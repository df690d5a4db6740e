// Package vision provides the HTTP client for the vision-language query
// service used by the verifier's yes/no presence checks.
package vision
