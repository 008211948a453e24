package user

// User is the customer identity as seen by the transport: the chat id is
// the primary key, the rest is display metadata.
type User struct {
	ID       int64
	Name     string
	Username string
	Phone    *string
}

// DisplayName returns the best human-readable identity for operator messages.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return "Client"
}
