package wasm

// sectionOrder tracks which non-custom section may appear next. Custom
// sections are accepted anywhere; every other section must have an id
// greater than the last one accepted.
type sectionOrder struct {
	next SectionID
}

func newSectionOrder() sectionOrder {
	return sectionOrder{next: SectionIDType}
}

// accept reports whether a section with the given id may appear at the
// current position, and advances past it if so.
func (o *sectionOrder) accept(id SectionID) bool {
	if id == SectionIDCustom {
		return true
	}
	if id < o.next || id > SectionIDData {
		return false
	}
	o.next = id + 1
	return true
}
