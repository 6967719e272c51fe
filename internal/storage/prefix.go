package storage

// PrefixStore namespaces every key of an inner store. Hosts running many
// sessions against one backend give each session its own prefix while the
// session keeps using its single fixed key.
type PrefixStore struct {
	inner  Store
	prefix string
}

func NewPrefixStore(inner Store, prefix string) *PrefixStore {
	return &PrefixStore{inner: inner, prefix: prefix}
}

func (s *PrefixStore) Get(key string) (string, error) {
	return s.inner.Get(s.prefix + key)
}

func (s *PrefixStore) Set(key, value string) error {
	return s.inner.Set(s.prefix+key, value)
}

func (s *PrefixStore) Delete(key string) error {
	return s.inner.Delete(s.prefix + key)
}

// Close is a no-op: the inner store is shared and closed by its owner.
func (s *PrefixStore) Close() error {
	return nil
}
