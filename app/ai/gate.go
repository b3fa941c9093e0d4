package ai

import "sync/atomic"

// Gate hands out monotonically increasing request tokens so that a slow
// response to an earlier assist request can be recognized as superseded
// and discarded instead of overwriting state derived from a later one.
type Gate struct {
	latest atomic.Uint64
}

// Acquire issues the next token and marks it as the latest.
func (g *Gate) Acquire() uint64 {
	return g.latest.Add(1)
}

// Current reports whether the token is still the latest issued. A caller
// holding a stale token must drop the response it carries.
func (g *Gate) Current(token uint64) bool {
	return g.latest.Load() == token
}
