package repositories

// IdentityProvider supplies the stable user identifier queries are issued
// under.
type IdentityProvider interface {
	CurrentUserID() string
}
