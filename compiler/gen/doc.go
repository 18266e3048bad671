// Package gen provides code generation for scanned Duet entities.
//
// It turns the entity schemas and the global type registry collected by
// package load into the conformance code of every entity.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	load.Schema + load.Types (collect phase)
//	        ↓
//	   Graph (read-only model registry)
//	        ↓
//	   Resolve (ordered rule chain per property)
//	        ↓
//	   templates (identity, coding keys, storage conformance)
//	        ↓
//	   Writer (artifacts, written or printed)
//
// # Column resolution
//
// Every stored property is mapped to exactly one storage column variant
// by the first rule of the chain that applies:
//
//  1. side-loaded properties render a logged null stub
//  2. createdAt and updatedAt of type Date use the server time on insert
//  3. JSON aggregates are stored as JSON
//  4. foreign keys ("Other.Id") are stored as UUID
//  5. an exact table of primitive and wrapper types
//  6. newtypes resolve through their underlying primitive
//  7. everything else is an enumeration, see Config.StrictEnums
//
// # Errors
//
// Errors are typed and match their sentinel with errors.Is:
//
//	var rerr *gen.ResolveError
//	if errors.As(err, &rerr) {
//		fmt.Println(rerr.Type, rerr.Field, rerr.TypeName)
//	}
package gen
