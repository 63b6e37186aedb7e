package percept

import (
	"strconv"

	"github.com/fwojciec/percept/sexp"
	"github.com/google/uuid"
)

// NewSourceID returns a fresh source identifier in content-address
// form: the hash of a random UUID. Every record appended during one
// run carries the same source id.
func NewSourceID() string {
	return sexp.Hash(uuid.New().String())
}

// Rule binds a URL pattern to the extraction script that handles
// matching pages. Rules are immutable once created; their identity is
// the content hash of their canonical form.
type Rule struct {
	Source     string
	Timestamp  int64
	Pattern    string
	ScriptHash string
	ObjectType string

	// Script optionally embeds the extraction script text itself.
	Script string
}

// Canonical returns the rule's canonical form. The source and script
// hash are verbatim fields; the optional script appears only when set.
func (r *Rule) Canonical() string {
	content := sexp.Object("source", sexp.Verbatim(r.Source)) +
		sexp.Object("timestamp", sexp.String(strconv.FormatInt(r.Timestamp, 10))) +
		sexp.Object("pattern", sexp.String(r.Pattern)) +
		sexp.Object("script-hash", sexp.Verbatim(r.ScriptHash)) +
		sexp.Object("object-type", sexp.String(r.ObjectType))
	if r.Script != "" {
		content += sexp.Object("script", sexp.String(r.Script))
	}
	return sexp.Object("rule", content)
}

// Hash returns the rule's content address.
func (r *Rule) Hash() string { return sexp.Hash(r.Canonical()) }

// Inference records one application of a rule to a URL. Exactly one
// outcome branch is populated: the success branch (ObjectType plus
// ObjectHash) or the error branch (Error).
type Inference struct {
	Source     string
	Timestamp  int64
	URL        string
	ScriptHash string

	// Success branch.
	ObjectType string
	ObjectHash string

	// Error branch. Non-empty means extraction failed.
	Error string

	// Script optionally embeds the extraction script text.
	Script string

	// Object optionally embeds the raw canonical form of the
	// extracted object itself.
	Object string
}

// Failed reports whether the inference recorded an extraction failure.
func (inf *Inference) Failed() bool { return inf.Error != "" }

// Canonical returns the inference's canonical form. Only the populated
// outcome branch appears in the encoding; the other leaves no trace.
func (inf *Inference) Canonical() string {
	content := sexp.Object("source", sexp.Verbatim(inf.Source)) +
		sexp.Object("timestamp", sexp.String(strconv.FormatInt(inf.Timestamp, 10))) +
		sexp.Object("url", sexp.String(inf.URL)) +
		sexp.Object("script-hash", sexp.Verbatim(inf.ScriptHash))
	if inf.Failed() {
		content += sexp.Object("error", sexp.String(inf.Error))
	} else {
		content += sexp.Object("object-type", sexp.String(inf.ObjectType)) +
			sexp.Object("object-hash", sexp.Verbatim(inf.ObjectHash))
	}
	if inf.Script != "" {
		content += sexp.Object("script", sexp.String(inf.Script))
	}
	if inf.Object != "" {
		// The embedded object is already canonical; no length prefix.
		content += sexp.Object("object", inf.Object)
	}
	return sexp.Object("inference", content)
}

// Hash returns the inference's content address.
func (inf *Inference) Hash() string { return sexp.Hash(inf.Canonical()) }

// Perception is an externally supplied judgment about a previously
// produced object. It references the object by (URL, object type,
// object hash) rather than by inference identity, so perceptions can
// arrive long after the run that produced the object.
type Perception struct {
	Source     string
	Timestamp  int64
	URL        string
	ObjectType string
	ObjectHash string
	Valid      bool
}

// Canonical returns the perception's canonical form. Validity encodes
// as the atom "1" or "0".
func (p *Perception) Canonical() string {
	valid := "0"
	if p.Valid {
		valid = "1"
	}
	content := sexp.Object("source", sexp.Verbatim(p.Source)) +
		sexp.Object("timestamp", sexp.String(strconv.FormatInt(p.Timestamp, 10))) +
		sexp.Object("url", sexp.String(p.URL)) +
		sexp.Object("object-type", sexp.String(p.ObjectType)) +
		sexp.Object("object-hash", sexp.Verbatim(p.ObjectHash)) +
		sexp.Object("valid", sexp.String(valid))
	return sexp.Object("perception", content)
}

// Hash returns the perception's content address.
func (p *Perception) Hash() string { return sexp.Hash(p.Canonical()) }
