package config

const SourceFileExt = ".clasp"

// ProjectFileName is looked up in the working directory by the CLI.
const ProjectFileName = "clasp.yaml"

// PreludePath is the module path of the embedded native declarations.
const PreludePath = "std/prelude.clasp"

// Boxed classes of the primitive types, used for member access on
// primitive receivers.
const (
	NumberClassName  = "Number"
	StringClassName  = "String"
	BooleanClassName = "Boolean"
)

// Built-in class names
const (
	ArrayClassName         = "Array"
	ArrayIteratorClassName = "ArrayIterator"
	SystemClassName        = "System"
	AssertClassName        = "Assert"
	VNodeClassName         = "VNode"
)

// Iteration protocol
const (
	IteratorMethodName = "iterator"
	RewindMethodName   = "rewind"
	HasNextMethodName  = "hasNext"
	CurrentMethodName  = "current"
	NextMethodName     = "next"
)

// Special member names
const (
	ConstructorName  = "constructor"
	ThisName         = "this"
	RenderMethodName = "render"
	IndexGetMethod   = "get"
	IndexSetMethod   = "set"
	NativeAnnotation = "native"
)

// Entry point defaults
const (
	DefaultEntryClass  = "App"
	DefaultEntryMethod = "main"
)

// Primitive type names accepted in annotations
const (
	NumberTypeName  = "number"
	StringTypeName  = "string"
	BooleanTypeName = "boolean"
	VoidTypeName    = "void"
	MixedTypeName   = "mixed"
)
