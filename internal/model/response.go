package model

// Response is the envelope written by the JSON dashboard renderer.
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}

// ErrorResponse builds a failed Response carrying msg.
func ErrorResponse(msg string) Response {
	return Response{Error: &msg, Message: "Error"}
}
