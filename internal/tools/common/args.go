package common

import "fmt"

// RequireString extracts a required string argument from request arguments.
func RequireString(args map[string]interface{}, name string) (string, error) {
	value, ok := args[name].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return value, nil
}

// OptionalString extracts an optional string argument, returning "" when absent.
func OptionalString(args map[string]interface{}, name string) string {
	if value, ok := args[name].(string); ok {
		return value
	}
	return ""
}

// OptionalBool extracts an optional boolean argument.
func OptionalBool(args map[string]interface{}, name string, defaultValue bool) bool {
	if value, ok := args[name].(bool); ok {
		return value
	}
	return defaultValue
}

// OptionalInt extracts an optional integer argument. JSON numbers arrive as
// float64, so both representations are accepted.
func OptionalInt(args map[string]interface{}, name string, defaultValue int) int {
	switch value := args[name].(type) {
	case float64:
		return int(value)
	case int:
		return value
	}
	return defaultValue
}

// GetProjectFromArgs extracts the target project id from request arguments.
// Returns "" when the tool does not operate on a specific project.
func GetProjectFromArgs(args map[string]interface{}) string {
	if projectID, ok := args["projectId"].(string); ok {
		return projectID
	}
	return ""
}
