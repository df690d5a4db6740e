// Package knowledge provides the HTTP client for the knowledge-graph
// service: typed node lookups used by shot planning and the structured
// multimodal verification queries used by the composite verifier.
package knowledge
