package storage

// Store is the minimal durable key-value surface the session needs. A
// missing key reads as ("", nil); implementations never distinguish absent
// from empty.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
