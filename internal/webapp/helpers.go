package webapp

// ContextValue retrieves a typed request-scoped value set via Context.Set.
// Returns the zero value when the key is absent or holds a different type.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}
