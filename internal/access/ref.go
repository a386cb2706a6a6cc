package access

import (
	"strings"

	"github.com/everstacklabs/modelgate/internal/contracts"
)

// Kind says how a Ref's name should be interpreted.
type Kind int

const (
	// KindAuto treats the name as a tier when it matches the tier set,
	// otherwise as a model.
	KindAuto Kind = iota
	KindTier
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindTier:
		return "tier"
	case KindModel:
		return "model"
	default:
		return "auto"
	}
}

// Ref is a tier or model reference.
type Ref struct {
	Name string
	Kind Kind
}

// TierRef asserts name is a tier.
func TierRef(name string) Ref { return Ref{Name: name, Kind: KindTier} }

// ModelRef asserts name is a model.
func ModelRef(name string) Ref { return Ref{Name: name, Kind: KindModel} }

// ParseRef reads the string form used by configs and the CLI: "tier:<name>",
// "model:<name>" or a bare name for auto-detection.
func ParseRef(s string) Ref {
	if rest, ok := strings.CutPrefix(s, "tier:"); ok {
		return TierRef(rest)
	}
	if rest, ok := strings.CutPrefix(s, "model:"); ok {
		return ModelRef(rest)
	}
	return Ref{Name: s, Kind: KindAuto}
}

// Resolve dispatches ref to Tier or Model. A forced kind that contradicts
// the name returns a TypeMismatchError.
func (g *Gate) Resolve(ref Ref) (ResolvedModel, error) {
	isTier := contracts.IsTier(ref.Name)

	switch ref.Kind {
	case KindTier:
		if !isTier {
			return ResolvedModel{}, &contracts.TypeMismatchError{Input: ref.Name, Asserted: "tier", Detected: "model"}
		}
		return g.Tier(ref.Name)
	case KindModel:
		if isTier {
			return ResolvedModel{}, &contracts.TypeMismatchError{Input: ref.Name, Asserted: "model", Detected: "tier"}
		}
		return g.Model(ref.Name)
	default:
		if isTier {
			return g.Tier(ref.Name)
		}
		return g.Model(ref.Name)
	}
}

// ResolveString is Resolve(ParseRef(s)).
func (g *Gate) ResolveString(s string) (ResolvedModel, error) {
	return g.Resolve(ParseRef(s))
}
