package sqlite

import (
	"context"

	"github.com/fwojciec/percept"
)

// Compile-time interface verification.
var _ percept.RecordStore = (*RecordService)(nil)

// RecordService implements percept.RecordStore using SQLite. Each
// record kind has its own table; rows are inserted with the record's
// own source and timestamp and are never updated or deleted.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// AddRule persists a rule.
func (s *RecordService) AddRule(ctx context.Context, rule *percept.Rule) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rules (source, timestamp, pattern, script_hash, object_type, script)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rule.Source, rule.Timestamp, rule.Pattern, rule.ScriptHash, rule.ObjectType, rule.Script)

	return err
}

// AddInference persists an inference. Both outcome branches are stored
// in the same table; the unpopulated branch's columns stay empty.
func (s *RecordService) AddInference(ctx context.Context, inf *percept.Inference) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inferences (source, timestamp, url, script_hash, object_type, object_hash, error, script, object)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, inf.Source, inf.Timestamp, inf.URL, inf.ScriptHash, inf.ObjectType, inf.ObjectHash,
		inf.Error, inf.Script, inf.Object)

	return err
}

// AddPerception persists a perception.
func (s *RecordService) AddPerception(ctx context.Context, p *percept.Perception) error {
	valid := 0
	if p.Valid {
		valid = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO perceptions (source, timestamp, url, object_type, object_hash, valid)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.Source, p.Timestamp, p.URL, p.ObjectType, p.ObjectHash, valid)

	return err
}

// Rules returns all stored rules in insertion order.
func (s *RecordService) Rules(ctx context.Context) ([]*percept.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, timestamp, pattern, script_hash, object_type, script
		FROM rules
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*percept.Rule
	for rows.Next() {
		var rule percept.Rule
		if err := rows.Scan(&rule.Source, &rule.Timestamp, &rule.Pattern,
			&rule.ScriptHash, &rule.ObjectType, &rule.Script); err != nil {
			return nil, err
		}
		rules = append(rules, &rule)
	}

	return rules, rows.Err()
}

// Inferences returns all stored inferences in insertion order.
func (s *RecordService) Inferences(ctx context.Context) ([]*percept.Inference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, timestamp, url, script_hash, object_type, object_hash, error, script, object
		FROM inferences
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infs []*percept.Inference
	for rows.Next() {
		var inf percept.Inference
		if err := rows.Scan(&inf.Source, &inf.Timestamp, &inf.URL, &inf.ScriptHash,
			&inf.ObjectType, &inf.ObjectHash, &inf.Error, &inf.Script, &inf.Object); err != nil {
			return nil, err
		}
		infs = append(infs, &inf)
	}

	return infs, rows.Err()
}

// Perceptions returns all stored perceptions in insertion order.
func (s *RecordService) Perceptions(ctx context.Context) ([]*percept.Perception, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, timestamp, url, object_type, object_hash, valid
		FROM perceptions
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perceptions []*percept.Perception
	for rows.Next() {
		var p percept.Perception
		var valid int
		if err := rows.Scan(&p.Source, &p.Timestamp, &p.URL,
			&p.ObjectType, &p.ObjectHash, &valid); err != nil {
			return nil, err
		}
		p.Valid = valid == 1
		perceptions = append(perceptions, &p)
	}

	return perceptions, rows.Err()
}
