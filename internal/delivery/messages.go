package delivery

const (
	MsgPhoneRequired     = "Please enter your phone number"
	MsgAgentNotFound     = "Agent not found. Please check your number."
	MsgConnectionFailed  = "Connection failed. Please try again."
	MsgRecipientRequired = "Please enter the recipient's name."
	msgUpdateFailedFmt   = "Could not update order: %s"
)
