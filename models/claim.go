package models

// ClaimInfo is one claim attached to a user or role document. Two
// claims are the same when both type and value match.
type ClaimInfo struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (c ClaimInfo) Equal(other ClaimInfo) bool {
	return c.Type == other.Type && c.Value == other.Value
}

// Claims is a set of ClaimInfo unique by (type, value). Mutations are
// in-memory only; they persist with the next update of the owning
// document.
type Claims []ClaimInfo

// Add inserts the claim and reports whether the set grew. Adding a
// claim already present is a no-op.
func (c *Claims) Add(claim ClaimInfo) bool {
	if c.Contains(claim) {
		return false
	}
	*c = append(*c, claim)
	return true
}

// Remove deletes the claim and reports whether it was present.
func (c *Claims) Remove(claim ClaimInfo) bool {
	for i, have := range *c {
		if have.Equal(claim) {
			*c = append((*c)[:i], (*c)[i+1:]...)
			return true
		}
	}
	return false
}

func (c Claims) Contains(claim ClaimInfo) bool {
	for _, have := range c {
		if have.Equal(claim) {
			return true
		}
	}
	return false
}
