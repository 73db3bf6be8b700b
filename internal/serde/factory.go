package serde

// Factory creates lazy objects from type descriptors.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) NewLazyObject(t *TypeInfo) LazyObject {
	return NewLazyObject(t)
}

func (f *Factory) NewLazyCellMap(t *TypeInfo) (*LazyCellMap, error) {
	return NewLazyCellMap(t)
}
