package cache

import "fmt"

// GenerateKey creates a channel or key name with prefix and ID.
func GenerateKey(prefix string, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}
