package utils

// NewNullString returns a pointer to s, or nil when s is empty.
// Used for optional fields (email, full name, cni) that persist as NULL.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
