package auth

import "crypto/subtle"

// FailureMessage is shown to the operator after a rejected login.
const FailureMessage = "Invalid username or password"

// Outcome is the result of a login attempt.
type Outcome struct {
	OK      bool
	Message string
}

// Credentials is the single operator account.
type Credentials struct {
	Username string
	Password string
}

// Authenticator checks login attempts against one fixed credential pair.
type Authenticator struct {
	creds Credentials
}

// NewAuthenticator creates an authenticator for creds.
func NewAuthenticator(creds Credentials) *Authenticator {
	return &Authenticator{creds: creds}
}

// AttemptLogin compares username and password verbatim against the
// configured pair. Any number of attempts is allowed.
func (a *Authenticator) AttemptLogin(username, password string) Outcome {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password)) == 1
	if userOK && passOK {
		return Outcome{OK: true}
	}
	return Outcome{Message: FailureMessage}
}
