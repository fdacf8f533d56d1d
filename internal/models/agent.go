package models

// Agent is a delivery partner. Records are created outside this service.
type Agent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// DisplayName falls back to the phone number for agents without a name.
func (a *Agent) DisplayName() string {
	if a == nil {
		return ""
	}
	if a.Name != "" {
		return a.Name
	}
	return a.PhoneNumber
}
