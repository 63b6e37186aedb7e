package mock

import (
	"context"

	"github.com/fwojciec/percept"
)

var _ percept.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of percept.RecordStore.
type RecordStore struct {
	AddRuleFn       func(ctx context.Context, rule *percept.Rule) error
	AddInferenceFn  func(ctx context.Context, inf *percept.Inference) error
	AddPerceptionFn func(ctx context.Context, p *percept.Perception) error
	RulesFn         func(ctx context.Context) ([]*percept.Rule, error)
	InferencesFn    func(ctx context.Context) ([]*percept.Inference, error)
	PerceptionsFn   func(ctx context.Context) ([]*percept.Perception, error)
}

func (s *RecordStore) AddRule(ctx context.Context, rule *percept.Rule) error {
	return s.AddRuleFn(ctx, rule)
}

func (s *RecordStore) AddInference(ctx context.Context, inf *percept.Inference) error {
	return s.AddInferenceFn(ctx, inf)
}

func (s *RecordStore) AddPerception(ctx context.Context, p *percept.Perception) error {
	return s.AddPerceptionFn(ctx, p)
}

func (s *RecordStore) Rules(ctx context.Context) ([]*percept.Rule, error) {
	return s.RulesFn(ctx)
}

func (s *RecordStore) Inferences(ctx context.Context) ([]*percept.Inference, error) {
	return s.InferencesFn(ctx)
}

func (s *RecordStore) Perceptions(ctx context.Context) ([]*percept.Perception, error) {
	return s.PerceptionsFn(ctx)
}
