// Package percept extracts structured article content from web pages
// and records what happened in an auditable, content-addressable
// ledger. Every extraction leaves a provenance trail: a Rule names the
// policy that matched the URL, an Inference records the outcome of
// applying it (a content hash on success, an error message on
// failure), and a Perception captures a later judgment about whether
// the result was valid. All three record kinds serialize through one
// canonical S-expression grammar, so identical content always has the
// same address.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// goquery/, gemini/).
package percept
