package dtos

// LoginForm is posted by the LOGIN view as phone_number. Emptiness is
// checked by the state machine so it can show its own message; validation
// only bounds the input.
type LoginForm struct {
	PhoneNumber string `validate:"max=32"`
}

// PODForm is posted by the proof-of-delivery view as recipient.
type PODForm struct {
	Recipient string `validate:"max=120"`
}
