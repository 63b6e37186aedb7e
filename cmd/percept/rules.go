package main

import (
	"fmt"

	"github.com/fwojciec/percept"
)

// Run executes the rules list command.
func (c *RulesListCmd) Run(deps *Dependencies) error {
	rules := deps.Ledger.Rules()

	if len(rules) == 0 {
		fmt.Fprintln(deps.Stdout, "No rules registered. Use 'percept rules add' to create one.")
		return nil
	}

	for _, r := range rules {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", r.Hash(), r.ObjectType, r.Pattern)
	}

	return nil
}

// Run executes the rules add command.
func (c *RulesAddCmd) Run(deps *Dependencies) error {
	rule, err := deps.Ledger.RegisterRule(deps.Ctx, c.Pattern, c.ScriptHash, c.ObjectType, c.Script)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", percept.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Registered rule %s for pattern %q\n", rule.Hash(), rule.Pattern)
	return nil
}
