package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Signup struct {
	Name     string `validate:"required,min=1,max=100" json:"name"`
	Email    string `validate:"required,email"         json:"email"`
	Password string `validate:"required,min=8"         json:"password"`
}

func (s Signup) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", s.Email).Str("name", s.Name)
}

func (s Signup) MarshalJSON() ([]byte, error) {
	s.Password = "***"
	type S Signup
	return json.Marshal(S(s))
}
