package mock

import "github.com/fwojciec/percept"

var _ percept.Converter = (*Converter)(nil)

// Converter is a mock implementation of percept.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
