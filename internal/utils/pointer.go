package utils

// Ptr returns a pointer to v, avoiding a temporary variable when the address
// of a literal or computed value is needed.
//
// Example:
//
//	timeout := utils.Ptr(30 * time.Second)
func Ptr[T any](v T) *T {
	return &v
}
