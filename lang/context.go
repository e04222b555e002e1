package lang

import (
	"io"
	"maps"
	"slices"
	"strings"
)

// Context maps variable names to their values.
//
// A Context is not safe for concurrent mutation; use one per parse.
type Context map[string]string

// Clone returns a copy of c.
func (c Context) Clone() Context {
	if c == nil {
		return Context{}
	}

	return maps.Clone(c)
}

// Names returns the variable names of c in sorted order.
func (c Context) Names() []string {
	return slices.Sorted(maps.Keys(c))
}

// Rename moves the value of variable from to variable to, if from is set.
func (c Context) Rename(from, to string) {
	if v, ok := c[from]; ok {
		delete(c, from)
		c[to] = v
	}
}

// WriteTo writes c as declarations, one NAME='value' per line sorted by
// name. Evaluating the output yields c again.
func (c Context) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, name := range c.Names() {
		n, err := io.WriteString(w, name+"="+Quote(c[name])+"\n")
		total += int64(n)

		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// Quote single-quotes s so that it evaluates to itself, closing and escaping
// any embedded single quote.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
