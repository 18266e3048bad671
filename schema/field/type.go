package field

// A Type represents a storage column encoding. It is the closed set of
// value cases understood by the Postgres data enum of the storage library.
type Type uint8

// List of storage column encodings.
const (
	TypeInvalid Type = iota
	TypeID
	TypeUUID
	TypeDate
	TypeInt
	TypeInt64
	TypeString
	TypeBool
	TypeEnum
	TypeJSON
	TypeIntArray
	TypeDouble
	// TypeCurrentTimestamp and TypeNull carry no value.
	TypeCurrentTimestamp
	TypeNull
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:          "invalid",
	TypeID:               "id",
	TypeUUID:             "uuid",
	TypeDate:             "date",
	TypeInt:              "int",
	TypeInt64:            "int64",
	TypeString:           "string",
	TypeBool:             "bool",
	TypeEnum:             "enum",
	TypeJSON:             "json",
	TypeIntArray:         "intArray",
	TypeDouble:           "double",
	TypeCurrentTimestamp: "currentTimestamp",
	TypeNull:             "null",
}

// String returns the case name of the type in the storage library.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// HasValue reports if the encoding wraps a value read from the entity.
func (t Type) HasValue() bool {
	return t.Valid() && t != TypeCurrentTimestamp && t != TypeNull
}

// Case renders the storage case for the given argument expression.
// Value-less types ignore the argument.
func (t Type) Case(arg string) string {
	if !t.HasValue() {
		return "." + t.String()
	}
	return "." + t.String() + "(" + arg + ")"
}
