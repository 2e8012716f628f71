package dataset

import "sort"

// Element is one attribute: a tag plus its text values and, for bulk
// attributes such as pixel data, a raw byte payload.
type Element struct {
	Tag    Tag
	Values []string
	Bytes  []byte
}

// First returns the first text value, or "" when the element has none.
func (e *Element) First() string {
	if e == nil || len(e.Values) == 0 {
		return ""
	}
	return e.Values[0]
}

func (e *Element) clone() *Element {
	cp := &Element{Tag: e.Tag}
	if e.Values != nil {
		cp.Values = append([]string(nil), e.Values...)
	}
	if e.Bytes != nil {
		cp.Bytes = append([]byte(nil), e.Bytes...)
	}
	return cp
}

// mapping is an ordered tag-to-element map. Elements are kept in tag order
// so walks and serialization are deterministic.
type mapping struct {
	order []Tag
	elems map[Tag]*Element
}

func newMapping() *mapping {
	return &mapping{elems: make(map[Tag]*Element)}
}

func (m *mapping) get(tag Tag) (*Element, bool) {
	e, ok := m.elems[tag]
	return e, ok
}

func (m *mapping) set(e *Element) {
	if _, ok := m.elems[e.Tag]; !ok {
		i := sort.Search(len(m.order), func(i int) bool { return !m.order[i].Less(e.Tag) })
		m.order = append(m.order, Tag{})
		copy(m.order[i+1:], m.order[i:])
		m.order[i] = e.Tag
	}
	m.elems[e.Tag] = e
}

func (m *mapping) delete(tag Tag) {
	if _, ok := m.elems[tag]; !ok {
		return
	}
	delete(m.elems, tag)
	for i, t := range m.order {
		if t == tag {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// walk visits every element in tag order. The visited set is snapshotted
// first, so callbacks may delete elements without skipping or revisiting.
func (m *mapping) walk(fn func(*Element)) {
	tags := append([]Tag(nil), m.order...)
	for _, tag := range tags {
		if e, ok := m.elems[tag]; ok {
			fn(e)
		}
	}
}

func (m *mapping) clone() *mapping {
	cp := newMapping()
	cp.order = append([]Tag(nil), m.order...)
	for tag, e := range m.elems {
		cp.elems[tag] = e.clone()
	}
	return cp
}

// Dataset is an ordered attribute mapping with a distinguished file-meta
// sub-mapping. Policy application mutates it in place.
type Dataset struct {
	meta *mapping
	main *mapping
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{meta: newMapping(), main: newMapping()}
}

// Get returns the main-mapping element for tag.
func (d *Dataset) Get(tag Tag) (*Element, bool) { return d.main.get(tag) }

// Contains reports whether the main mapping holds tag.
func (d *Dataset) Contains(tag Tag) bool {
	_, ok := d.main.get(tag)
	return ok
}

// Value returns the first text value of the main-mapping element for tag,
// or "" when absent.
func (d *Dataset) Value(tag Tag) string {
	e, _ := d.main.get(tag)
	return e.First()
}

// Set inserts or replaces a main-mapping element.
func (d *Dataset) Set(e *Element) { d.main.set(e) }

// SetValue inserts or replaces a single-valued text element in the main
// mapping.
func (d *Dataset) SetValue(tag Tag, value string) {
	d.main.set(&Element{Tag: tag, Values: []string{value}})
}

// SetBytes inserts or replaces a bulk byte element in the main mapping.
func (d *Dataset) SetBytes(tag Tag, payload []byte) {
	d.main.set(&Element{Tag: tag, Bytes: payload})
}

// Delete removes tag from the main mapping.
func (d *Dataset) Delete(tag Tag) { d.main.delete(tag) }

// Walk visits every main-mapping element in tag order.
func (d *Dataset) Walk(fn func(*Element)) { d.main.walk(fn) }

// Tags returns the main-mapping tags in order.
func (d *Dataset) Tags() []Tag { return append([]Tag(nil), d.main.order...) }

// MetaGet returns the file-meta element for tag.
func (d *Dataset) MetaGet(tag Tag) (*Element, bool) { return d.meta.get(tag) }

// MetaValue returns the first text value of the file-meta element for tag.
func (d *Dataset) MetaValue(tag Tag) string {
	e, _ := d.meta.get(tag)
	return e.First()
}

// MetaSet inserts or replaces a file-meta element.
func (d *Dataset) MetaSet(e *Element) { d.meta.set(e) }

// MetaSetValue inserts or replaces a single-valued text element in the
// file-meta mapping.
func (d *Dataset) MetaSetValue(tag Tag, value string) {
	d.meta.set(&Element{Tag: tag, Values: []string{value}})
}

// MetaDelete removes tag from the file-meta mapping.
func (d *Dataset) MetaDelete(tag Tag) { d.meta.delete(tag) }

// MetaWalk visits every file-meta element in tag order.
func (d *Dataset) MetaWalk(fn func(*Element)) { d.meta.walk(fn) }

// MetaTags returns the file-meta tags in order.
func (d *Dataset) MetaTags() []Tag { return append([]Tag(nil), d.meta.order...) }

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	return &Dataset{meta: d.meta.clone(), main: d.main.clone()}
}
