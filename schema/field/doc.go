// Package field defines the closed set of storage column encodings that
// generated conformances may produce for an entity property.
//
// Every property of a scanned entity is mapped to exactly one Type. The
// Type renders as a case of the storage library's data enum:
//
//	field.TypeInt.Case("count")              // .int(count)
//	field.TypeUUID.Case("parentId")          // .uuid(parentId)
//	field.TypeCurrentTimestamp.Case("")      // .currentTimestamp
//
// Optionality never changes the Type a property maps to, only the access
// expression passed to Case.
package field
