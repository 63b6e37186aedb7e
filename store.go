package percept

import "context"

// RecordStore durably persists ledger records as they are appended, so
// a ledger can outlive a single run. Implementations must preserve
// append order within each record kind.
type RecordStore interface {
	// AddRule persists a rule.
	AddRule(ctx context.Context, rule *Rule) error

	// AddInference persists an inference.
	AddInference(ctx context.Context, inf *Inference) error

	// AddPerception persists a perception.
	AddPerception(ctx context.Context, p *Perception) error

	// Rules returns all stored rules in insertion order.
	Rules(ctx context.Context) ([]*Rule, error)

	// Inferences returns all stored inferences in insertion order.
	Inferences(ctx context.Context) ([]*Inference, error)

	// Perceptions returns all stored perceptions in insertion order.
	Perceptions(ctx context.Context) ([]*Perception, error)
}
