package listedit

// Field names one comparable attribute of T so that updates can skip no-op writes.
type Field[T any, V comparable] struct {
	Name string
	Get  func(T) V
	Set  func(T, V) T
}

// Update sets one field of one item. When value equals the current value the
// editor is left as is (same snapshot, same version) and false is returned.
func Update[T any, V comparable](e *Editor[T], index int, f Field[T, V], value V) (bool, error) {
	if err := e.check(index); err != nil {
		return false, err
	}
	current := e.items[index].Value
	if f.Get(current) == value {
		return false, nil
	}
	if err := e.Replace(index, f.Set(current, value)); err != nil {
		return false, err
	}
	return true, nil
}
