package mails

import (
	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
)

type Payload struct {
	To      string
	Subject string
	Body    string
}

func (p Payload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.To, validation.Required, is.Email),
		validation.Field(&p.Subject, validation.Required),
		validation.Field(&p.Body, validation.Required),
	)
}
