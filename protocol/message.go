// Package protocol implements the line-delimited JSON wire format spoken by
// TCP clients: one Message per request line, one Response per reply line.
package protocol

// UnknownRequestID is echoed when a line carries no usable requestId.
const UnknownRequestID = "unknown"

// Message is a decoded client request.
type Message struct {
	RequestID string         `json:"requestId"`
	Type      string         `json:"type"`
	SessionID string         `json:"sessionId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Action returns data.action when it is a string.
func (m Message) Action() string {
	action, _ := m.Data["action"].(string)
	return action
}

// Response is the single reply line written for every request.
type Response struct {
	RequestID string         `json:"requestId"`
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Result is what a command handler produces on success.
type Result struct {
	Message string
	Data    map[string]any
}

// IsValid reports whether a decoded message can be dispatched.
func IsValid(m *Message) bool {
	return m != nil && m.Type != "" && m.RequestID != ""
}

func CreateError(requestID, text string) Response {
	return Response{RequestID: requestID, Success: false, Message: text}
}

func CreateSuccess(requestID, text string, data map[string]any) Response {
	return Response{RequestID: requestID, Success: true, Message: text, Data: data}
}
