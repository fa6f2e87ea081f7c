package tp

import "tlog.app/go/tlog/tlwire"

type (
	// SizedType is a Type with its storage width in bytes.
	//
	// Compare SizedTypes with Equal: the builtin == also compares IsPointer.
	SizedType struct {
		Type      Type
		Size      int
		IsPointer bool
	}
)

func Make(t Type, size int) SizedType {
	return SizedType{
		Type: t,
		Size: size,
	}
}

func MakeInteger(size int) SizedType { return Make(Integer, size) }
func MakeString(size int) SizedType { return Make(String, size) }

func MakeCast(size int, ptr bool) SizedType {
	return SizedType{
		Type:      Cast,
		Size:      size,
		IsPointer: ptr,
	}
}

// Pointer returns a copy of t marked as a pointer.
func (t SizedType) Pointer() SizedType {
	t.IsPointer = true
	return t
}

// Equal reports whether t and x have the same Type and Size.
// IsPointer does not take part in the comparison.
func (t SizedType) Equal(x SizedType) bool {
	return t.Type == x.Type && t.Size == x.Size
}

// IsArray reports whether values of t are stored as an inline buffer
// rather than as a scalar or a pointer.
func (t SizedType) IsArray() bool {
	return t.Type == String || t.Type == Usym || t.Type == Cast && !t.IsPointer
}

func (t SizedType) String() string {
	if t.IsPointer {
		return t.Type.String() + "*"
	}

	return t.Type.String()
}

func (t SizedType) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 2)
	b = e.AppendKey(b, "type")
	b = e.AppendString(b, t.String())
	b = e.AppendKeyInt64(b, "size", int64(t.Size))

	return b
}
