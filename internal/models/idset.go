package models

// IDSet is a set of user IDs with insertion order preserved. It exists so the
// "no duplicate member" invariant on groups is enforced by the container
// itself rather than by ad hoc checks at every call site. Stored as a JSON
// array via gorm's json serializer.
type IDSet []uint64

// Contains reports whether id is in the set.
func (s IDSet) Contains(id uint64) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add inserts id and reports whether the set changed.
func (s *IDSet) Add(id uint64) bool {
	if s.Contains(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Remove deletes id and reports whether the set changed.
func (s *IDSet) Remove(id uint64) bool {
	for i, v := range *s {
		if v == id {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of elements.
func (s IDSet) Len() int {
	return len(s)
}

// Values returns the elements as a plain slice.
func (s IDSet) Values() []uint64 {
	out := make([]uint64, len(s))
	copy(out, s)
	return out
}
