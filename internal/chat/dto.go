// internal/chat/dto.go

package chat

// SendMessageRequest carries the text to send
type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// SendResult is returned after a message is stored
type SendResult struct {
	Message   *Message `json:"message"`
	Remaining int      `json:"remaining"`
}
