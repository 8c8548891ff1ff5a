package syntax

import "fmt"

// ElementType is a registered node category such as IDENTIFIER or BLOCK.
// Element types are allocated by a Registry and are only meaningful
// together with the registry that allocated them.
type ElementType uint32

// NoType is the zero ElementType. It is never returned by Register.
const NoType ElementType = 0

// TypeFlags describe how the engine treats nodes of an element type.
type TypeFlags uint16

const (
	// FlagReparseable marks types whose text span can be re-lexed and
	// re-parsed in isolation, without surrounding context.
	FlagReparseable TypeFlags = 1 << iota

	// FlagWhitespace marks whitespace tokens.
	FlagWhitespace

	// FlagComment marks comment tokens.
	FlagComment

	// FlagLazy marks chameleon types: composites whose children are parsed
	// on demand from their text.
	FlagLazy

	// FlagTemplateHost marks types hosting embedded content whose meaning
	// depends on non-local context. They are never reparsed in isolation,
	// even when FlagReparseable is also set.
	FlagTemplateHost

	// FlagError marks error elements produced for unparsable input.
	FlagError
)

// TypeInfo holds the registered metadata for an element type.
type TypeInfo struct {
	// Language is the name of the language that registered the type.
	Language string

	// Name is the human-readable type name (e.g. "IDENTIFIER").
	Name string

	// Flags controls reparse and comparison behavior.
	Flags TypeFlags
}

// Has reports whether all bits of flag are set.
func (i TypeInfo) Has(flag TypeFlags) bool {
	return i.Flags&flag == flag
}

// Registry is the side table mapping element types to their metadata.
// A registry is created per language plugin and passed explicitly to the
// trees it describes.
type Registry struct {
	types  []TypeInfo
	byName map[string]ElementType
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		// Slot 0 is reserved for NoType.
		types:  []TypeInfo{{Name: "NONE"}},
		byName: make(map[string]ElementType),
	}
}

// Register allocates a new element type. Registering the same
// language/name pair twice returns the existing type with its flags updated.
func (r *Registry) Register(language, name string, flags TypeFlags) ElementType {
	key := language + ":" + name
	if typ, ok := r.byName[key]; ok {
		r.types[typ].Flags = flags
		return typ
	}

	typ := ElementType(len(r.types))
	r.types = append(r.types, TypeInfo{Language: language, Name: name, Flags: flags})
	r.byName[key] = typ
	return typ
}

// Lookup finds a registered type by language and name.
func (r *Registry) Lookup(language, name string) (ElementType, bool) {
	typ, ok := r.byName[language+":"+name]
	return typ, ok
}

// Info returns the metadata for typ. Unknown types yield a zero TypeInfo.
func (r *Registry) Info(typ ElementType) TypeInfo {
	if r == nil || int(typ) >= len(r.types) {
		return TypeInfo{}
	}
	return r.types[typ]
}

// Name returns the type name, or a numeric placeholder for unknown types.
func (r *Registry) Name(typ ElementType) string {
	info := r.Info(typ)
	if info.Name == "" {
		return fmt.Sprintf("TYPE(%d)", typ)
	}
	return info.Name
}

// Has reports whether typ carries flag.
func (r *Registry) Has(typ ElementType, flag TypeFlags) bool {
	return r.Info(typ).Has(flag)
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return len(r.types) - 1
}
