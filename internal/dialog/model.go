package dialog

type State string

const (
	StateIdle State = "idle"

	// Registration
	StateAwaitLine State = "await_line"

	// Hourly logging
	StateLogPickProcess State = "log_pick_process"
	StateLogHour        State = "log_hour"
	StateLogCount       State = "log_count"

	// Section settings
	StateTargetInput State = "target_input"
	StateSMVInput    State = "smv_input"
)

// Payload keys.
const (
	KeySection = "section_id"
	KeyProcess = "process"
	KeyHour    = "hour"
	KeyLastMID = "last_mid"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}

// GetString reads a string value from the payload.
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt reads a number stored in the payload. Values that went through
// JSON come back as float64.
func GetInt(p Payload, key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
