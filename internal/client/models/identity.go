// Package models defines the client-side data models of the mynote client.
package models

// Identity is an authenticated principal as reported by the identity
// provider. The client only ever holds read-only copies.
type Identity struct {
	// UID is the opaque, provider-assigned user identifier.
	UID string

	// Email is the address the account was created with.
	Email string

	// EmailVerified reports whether the provider has confirmed the address.
	EmailVerified bool
}

// Clone returns a copy of id, or nil for a nil receiver.
func (id *Identity) Clone() *Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

// Same reports whether a and b describe the same principal. Two nil
// identities are the same; nil and non-nil never are.
func Same(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.UID == b.UID
}
