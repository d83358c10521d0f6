package server

// Live sessions exchange JSON text messages.

// Message types.
const (
	MessageEvent  = "event"
	MessageRender = "render"
	MessageError  = "error"
)

// ClientMessage is sent by the browser when an element with a data-on-*
// attribute fires.
type ClientMessage struct {
	Type string `json:"type"`
	// HID is the element's data-hid.
	HID string `json:"hid"`
	// Event is the DOM event name without the "on" prefix, e.g. "click".
	Event string `json:"event"`
	// Value is the element value for input events.
	Value string `json:"value,omitempty"`
	// Fields are a form's named values for submit events.
	Fields map[string]string `json:"fields,omitempty"`
}

// ServerMessage is pushed to the browser.
type ServerMessage struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
	// HTML replaces the contents of the root container.
	HTML    string `json:"html,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
