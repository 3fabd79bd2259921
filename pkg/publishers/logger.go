package publishers

import "github.com/samvad-hq/checkout-kit/pkg/orders"

// Logger is the logging surface shared with the order client.
type Logger = orders.Logger

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// logDelivery records one delivery attempt: failures at error level, successes at debug.
func logDelivery(log Logger, typ, id string, evt Event, err error, extra map[string]any) {
	fields := map[string]any{
		"publisher_id": id,
		"event_id":     evt.ID,
		"operation":    evt.Operation,
	}
	for k, v := range extra {
		fields[k] = v
	}
	if err != nil {
		fields["error"] = err.Error()
		log.ErrorObj(typ+" publisher send failed", "publisher_"+typ+"_error", fields)
		return
	}
	log.DebugObj(typ+" publisher delivered event", "publisher_"+typ+"_delivery", fields)
}
