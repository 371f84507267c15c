package glx

// Attr describes one vertex attribute or uniform variable of a Shader.
type Attr struct {
	Name string
	Type AttrType
}

// AttrFormat is an ordered list of attributes. The order matters: uniform
// attributes are addressed by their index in the format.
type AttrFormat []Attr

// Size returns the byte size of one vertex laid out in this format.
func (af AttrFormat) Size() int {
	total := 0
	for _, attr := range af {
		total += attr.Type.Size()
	}
	return total
}

// AttrType is the type of a vertex attribute or uniform variable.
type AttrType int

const (
	Int AttrType = iota
	Float
	Vec2
	Vec3
	Vec4
	Mat4
)

// Size returns the byte size of a value of this attribute type.
func (at AttrType) Size() int {
	switch at {
	case Int, Float:
		return 4
	case Vec2:
		return 2 * 4
	case Vec3:
		return 3 * 4
	case Vec4:
		return 4 * 4
	case Mat4:
		return 16 * 4
	default:
		panic("size of invalid attribute type")
	}
}
