package credentials

// Record is the application's single stored account: one email/password pair,
// persisted as a JSON object. The password is stored in plaintext; hashing is
// an explicit non-goal of the single-user design.
type Record struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
