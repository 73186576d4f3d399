package enroute

// EventData is the payload capability. A payload type declares the event
// type written into the "type" attribute when it is built into an [Event],
// and the channel it belongs on. Implementations return constants:
//
//	type OrderPlaced struct {
//		ID string `json:"id"`
//	}
//
//	func (OrderPlaced) EventType() string   { return "order.placed" }
//	func (OrderPlaced) ChannelName() string { return "orders" }
//
// Payloads must be JSON-marshalable; [Builder.Build] encodes them with
// encoding/json.
type EventData interface {
	// EventType returns the CloudEvents "type" attribute for this payload.
	EventType() string
	// ChannelName returns the channel this payload is published on.
	ChannelName() string
}

// EmptyEventData is a payload carrying no information. It backs the
// canonical [Empty] event and is useful as a placeholder in tests.
type EmptyEventData struct{}

// EventType implements EventData.
func (EmptyEventData) EventType() string { return "_" }

// ChannelName implements EventData.
func (EmptyEventData) ChannelName() string { return "_" }
