package auth

import "strings"

// Credentials is what the operator types on the login form. Login is either
// a 10-digit mobile number or an email address.
type Credentials struct {
	Login    string `json:"login" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// Identity is the signed-in operator as answered by the remote API.
type Identity struct {
	Token string
	Name  string
}

type loginRequest struct {
	MobileNumber string `json:"MobileNumber,omitempty"`
	Email        string `json:"Email,omitempty"`
	Password     string `json:"Password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		FullName string `json:"FullName"`
		Name     string `json:"name"`
		Email    string `json:"Email"`
	} `json:"user"`
}

func (r loginResponse) displayName(fallback string) string {
	for _, name := range []string{r.User.FullName, r.User.Name, r.User.Email} {
		if strings.TrimSpace(name) != "" {
			return name
		}
	}
	return fallback
}
