package tools

import "time"

// DatetimeTool returns the current date and time
type DatetimeTool struct {
	now func() time.Time
}

// NewDatetimeTool creates a datetime tool
func NewDatetimeTool() *DatetimeTool {
	return &DatetimeTool{now: time.Now}
}

func (t *DatetimeTool) Name() string {
	return "get_current_datetime"
}

func (t *DatetimeTool) Description() string {
	return "Returns the current date and time as a string."
}

func (t *DatetimeTool) Parameters() []ParameterDef {
	return nil
}

func (t *DatetimeTool) Execute(args map[string]any) (string, error) {
	return t.now().Format("2006-01-02 15:04:05"), nil
}
