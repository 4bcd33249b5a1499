package models

// MessageResponse is the body of every error and of plain confirmations.
type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func ErrorResponse(message string) MessageResponse {
	return MessageResponse{Message: message}
}

func SuccessMessage(message string) MessageResponse {
	return MessageResponse{Message: message}
}
