package keyboard

import (
	"fmt"
	"strings"
)

// Callback actions
const (
	ActionType    = "type"    // value is an interview type
	ActionControl = "control" // value is skip, end or restart
)

// CallbackData represents parsed callback data
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses "action:value" callback data
func ParseCallback(data string) (*CallbackData, error) {
	action, value, ok := strings.Cut(data, ":")
	if !ok || action == "" || value == "" {
		return nil, fmt.Errorf("invalid callback format: %s", data)
	}

	return &CallbackData{Action: action, Value: value}, nil
}

// EncodeCallback creates callback data string
func EncodeCallback(action, value string) string {
	return action + ":" + value
}
