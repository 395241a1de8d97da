package skill

// Membership answers static category membership. A skill may be listed in
// both categories; Categorize resolves that.
type Membership interface {
	IsTechnical(c Canonical) bool
	IsSoft(c Canonical) bool
}

// StaticMembership holds two explicit category lists.
type StaticMembership struct {
	Technical Set
	Soft      Set
}

func (m StaticMembership) IsTechnical(c Canonical) bool { return m.Technical.Has(c) }
func (m StaticMembership) IsSoft(c Canonical) bool      { return m.Soft.Has(c) }

// Categorize splits skills into technical and soft buckets.
//
// A skill listed as technical goes to technical even when it is also listed as
// soft. A skill listed only as soft goes to soft. A skill in neither list goes to
// technical: unrecognised labels count toward technical totals.
func Categorize(m Membership, skills Set) (technical Set, soft Set) {
	technical = make(Set)
	soft = make(Set)
	for c := range skills {
		switch {
		case m.IsTechnical(c):
			technical[c] = struct{}{}
		case m.IsSoft(c):
			soft[c] = struct{}{}
		default:
			technical[c] = struct{}{}
		}
	}
	return technical, soft
}
