package graph

// Account is a registered API user, stored as a `:User` node.
type Account struct {
	// Email is the login name and primary key.
	Email string `crud:"pk,property:email"`

	// Credential is the PBKDF2 string derived from the basic-auth password and secret.
	Credential string `crud:"property:credential"`

	// UUID identifies the account in the graph like any other entity.
	UUID string `crud:"property:uuid"`
}

// Label maps Account onto the User label.
func (Account) Label() string { return "User" }
