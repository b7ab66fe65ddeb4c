package domain

// Owner is the authenticated user as supplied by the identity provider.
// Only ID takes part in authorization; Email is where notifications go.
type Owner struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Owns reports whether the owner is the owner of the artifact.
func (o *Owner) Owns(a *Artifact) bool {
	return o != nil && a != nil && o.ID != "" && o.ID == a.OwnerID
}
