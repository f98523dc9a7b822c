package identity

// ID is the partition key every store operation is scoped to. It is always
// passed explicitly; there is no ambient current-identity state anywhere in
// the codebase.
type ID string

// Anonymous is the shared partition used before a user signs in or connects
// a wallet. Clerk subjects are "user_" prefixed, so a real identity can never
// collide with it.
const Anonymous ID = "anonymous"

// FromClerkID maps a Clerk subject (or the empty string) to a partition key.
func FromClerkID(clerkID string) ID {
	if clerkID == "" {
		return Anonymous
	}
	return ID(clerkID)
}

func (id ID) IsAnonymous() bool {
	return id == Anonymous || id == ""
}

func (id ID) String() string {
	if id == "" {
		return string(Anonymous)
	}
	return string(id)
}
