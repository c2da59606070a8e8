package account

// DemoUser is the unauthenticated sign-up record kept for the landing page.
// Nothing here is validated, hashed or expired.
type DemoUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
