package service

// SchemaError reports that a server-produced value failed its own outbound
// schema. It signals an internal defect, never bad client input, and is
// surfaced as a 500-class response without retry.
type SchemaError struct {
	Issues map[string]string
}

func (e *SchemaError) Error() string {
	return "outbound schema validation failed"
}
