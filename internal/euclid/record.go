package euclid

// Columns lists the public fields of a row in display order.
var Columns = []string{"x", "y", "q", "r", "u", "s", "v", "t"}

// Field is a named value of a row.
type Field struct {
	Name  string
	Value int64
}

// Record is the flat view of a row used for rendering and serialization.
// Field order matches Columns; the original inputs are not part of it.
type Record struct {
	X int64 `json:"x" yaml:"x"`
	Y int64 `json:"y" yaml:"y"`
	Q int64 `json:"q" yaml:"q"`
	R int64 `json:"r" yaml:"r"`
	U int64 `json:"u" yaml:"u"`
	S int64 `json:"s" yaml:"s"`
	V int64 `json:"v" yaml:"v"`
	T int64 `json:"t" yaml:"t"`
}

// Record returns the flat view of st.
func (st Step) Record() Record {
	return Record{X: st.x, Y: st.y, Q: st.q, R: st.r, U: st.u, S: st.s, V: st.v, T: st.t}
}

// Values returns the row values in Columns order.
func (st Step) Values() []int64 {
	return []int64{st.x, st.y, st.q, st.r, st.u, st.s, st.v, st.t}
}

// Fields returns the row as name/value pairs in Columns order.
func (st Step) Fields() []Field {
	values := st.Values()
	fields := make([]Field, len(Columns))
	for i, name := range Columns {
		fields[i] = Field{Name: name, Value: values[i]}
	}
	return fields
}
