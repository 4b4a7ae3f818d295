// Package arena is the bounded append-only token buffer that the
// traversal driver pushes tokens into. Push runs the "symbol eater": a
// forward scan past whitespace for one absorbable punctuation byte,
// folded into the just-pushed token's metadata so the driver can skip
// that leaf on a later visit instead of emitting a separate token for
// it.
package arena

import (
	"github.com/cetinfurkan/nset/internal/hashcase"
	"github.com/cetinfurkan/nset/internal/registry"
	"github.com/cetinfurkan/nset/internal/token"
)

// Stats reports arena-level counters that don't belong on individual
// tokens.
type Stats struct {
	Dropped      int   // tokens silently discarded because the arena was full
	RegistryErrs int   // soft registry append failures encountered during this run
	LastRegErr   error // most recent registry append failure, if any
}

// Arena accumulates tokens up to a fixed capacity. Capacity is
// established at construction and never grows; once full, Push drops
// further tokens and increments Stats.Dropped rather than
// reallocating, so a pathological input can't cause unbounded memory
// growth mid-run.
type Arena struct {
	tokens []token.Token
	cap    int
	reg    *registry.Registry
	stats  Stats
}

// New returns an Arena with room for capacity tokens, registering the
// span of every token pushed through it into reg (which may be nil to
// skip registration entirely).
func New(capacity int, reg *registry.Registry) *Arena {
	return &Arena{
		tokens: make([]token.Token, 0, capacity),
		cap:    capacity,
		reg:    reg,
	}
}

// Push scans src forward from t.End() past ASCII whitespace for a
// single absorbable punctuation byte, then appends t to the arena
// (subject to capacity). If found, that byte's Absorbed value is folded
// into t before it is appended, and the offset just past the absorbed
// byte is returned so the traversal driver can suppress the
// corresponding leaf node. A return of 0 means nothing was absorbed.
func (a *Arena) Push(t token.Token, src []byte) (consumedThrough uint32) {
	word := sliceFor(src, t)
	t.RootID = hashcase.Hash(word)
	if a.reg != nil {
		// A registry write failure is soft: it's reported back to the
		// caller via Stats but never invalidates the token's own root_id,
		// which is pure computation independent of the log append
		// succeeding.
		if _, err := a.reg.Register(word); err != nil {
			a.stats.RegistryErrs++
			a.stats.LastRegErr = err
		}
	}

	i := int(t.End())
	for i < len(src) && isASCIISpace(src[i]) {
		i++
	}
	if i < len(src) {
		if absorbed, ok := token.AbsorbedFor(src[i]); ok {
			t.Absorbed = absorbed
			consumedThrough = uint32(i + 1)
		}
	}

	if len(a.tokens) >= a.cap {
		a.stats.Dropped++
		return consumedThrough
	}
	a.tokens = append(a.tokens, t)
	return consumedThrough
}

// Tokens returns the accumulated tokens in push order.
func (a *Arena) Tokens() []token.Token { return a.tokens }

// Stats returns the arena's drop counters.
func (a *Arena) Stats() Stats { return a.stats }

func sliceFor(src []byte, t token.Token) []byte {
	end := t.End()
	if int(end) > len(src) {
		end = uint32(len(src))
	}
	return src[t.Offset:end]
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
