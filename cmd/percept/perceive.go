package main

import (
	"fmt"

	"github.com/fwojciec/percept"
)

// Run executes the perceive command.
func (c *PerceiveCmd) Run(deps *Dependencies) error {
	if c.Valid == c.Invalid {
		fmt.Fprintf(deps.Stderr, "error: pass exactly one of --valid or --invalid\n")
		return percept.Errorf(percept.EINVALID, "pass exactly one of --valid or --invalid")
	}

	p, err := deps.Ledger.AddPerception(deps.Ctx, c.URL, c.ObjectType, c.ObjectHash, c.Valid)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", percept.ErrorMessage(err))
		return err
	}

	verdict := "valid"
	if !p.Valid {
		verdict = "invalid"
	}
	fmt.Fprintf(deps.Stdout, "Recorded %s perception for %s\n", verdict, c.URL)
	return nil
}
