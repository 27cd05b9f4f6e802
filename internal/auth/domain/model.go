package domain

// Registration is returned after a successful sign-up. It echoes the stored
// password hash, which clients of the original API read back.
type Registration struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Message      string
}

// Profile is returned after a successful login.
type Profile struct {
	ID      int64
	Name    string
	Email   string
	Role    string
	Message string
}

const (
	MessageRegistered = "Inscription réussie. Bienvenue !"
	MessageLoggedIn   = "Connexion réussie !"
)
