package auth

// Identity represents a normalized external authentication identity
// returned by a federated provider. It contains facts only, no decisions,
// and is never stored as-is.
type Identity struct {
	Provider       string // e.g. "google"
	ProviderUserID string // provider-scoped unique user identifier (sub)
	Email          string // email returned by provider
	Name           string // display name, may be empty
	EmailVerified  bool   // whether provider asserts email ownership
}
