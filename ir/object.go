// Package ir is the authoritative program model: an ordered, name-indexed
// collection of data objects and routines, and, per routine, an ordered
// sequence of three-address instructions grouped into basic blocks.
package ir

import (
	"fmt"

	"mplcg/diag"
)

// Width is the symbolic size class of a Prime, independent of machine
// bytes until the layout pass resolves it for a target Mode.
type Width int

const (
	WidthByte Width = iota
	WidthByte2
	WidthByte4
	WidthByte8
	WidthWord
	WidthPtr
	WidthMax
)

func (w Width) String() string {
	switch w {
	case WidthByte:
		return "byte"
	case WidthByte2:
		return "byte2"
	case WidthByte4:
		return "byte4"
	case WidthByte8:
		return "byte8"
	case WidthWord:
		return "word"
	case WidthPtr:
		return "ptr"
	case WidthMax:
		return "max"
	default:
		return fmt.Sprintf("width(%d)", int(w))
	}
}

// StorageClass is where an Object lives.
type StorageClass int

const (
	ClassPrivate StorageClass = iota
	ClassPublic
	ClassExtern
	ClassStack
	ClassParam
	ClassMember
	ClassTemp
	ClassConst
)

func (c StorageClass) String() string {
	switch c {
	case ClassPrivate:
		return "private"
	case ClassPublic:
		return "public"
	case ClassExtern:
		return "extern"
	case ClassStack:
		return "stack"
	case ClassParam:
		return "param"
	case ClassMember:
		return "member"
	case ClassTemp:
		return "temp"
	case ClassConst:
		return "const"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Variant tags which payload an Object carries. The source models this as
// deep inheritance (Object -> Data -> Prime/Array/Struct_inst/Routine)
// with virtual dispatch; the clean model here is a single tagged union
// with a Variant discriminant and per-kind payload fields, exactly one of
// which is non-nil for a given Object.
type Variant int

const (
	VariantPrime Variant = iota
	VariantArray
	VariantStructDef
	VariantStructInst
	VariantRoutine
)

func (v Variant) String() string {
	switch v {
	case VariantPrime:
		return "prime"
	case VariantArray:
		return "array"
	case VariantStructDef:
		return "struct_def"
	case VariantStructInst:
		return "struct_inst"
	case VariantRoutine:
		return "routine"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Object is the base of everything that has a name. Every site that once
// narrowed via a down-cast on the inheritance chain becomes a switch over
// Variant; illegal combinations are unreachable.
type Object struct {
	name      string
	nameSet   bool
	storage   StorageClass
	variant   Variant
	size      int
	sizeSet   bool
	offset    int
	offsetSet bool

	Prime      *PrimeData
	Array      *ArrayData
	StructDef  *StructDefData
	StructInst *StructInstData
	Routine    *RoutineData
}

// PrimeData is a scalar.
type PrimeData struct {
	width      Width
	widthSet   bool
	signed     bool
	signedSet  bool
	constValue int64 // meaningful only when StorageClass == ClassConst
	hasConst   bool
}

// ArrayData is a homogeneous sequence.
type ArrayData struct {
	count int
	child *Object
	init  []byte // initialiser bytes; len(init) <= total size
}

// Member is one named, ordered field of a struct definition.
type Member struct {
	Name   string
	Object *Object
	Offset int // computed once by the layout pass
}

// StructDefData owns an ordered, name-indexed list of data members.
type StructDefData struct {
	Members []Member
	index   map[string]int
}

// StructInstData points at the struct definition backing an instance.
type StructInstData struct {
	Def *Object
}

// RoutineData is a function body.
type RoutineData struct {
	Blocks    []*Block
	Params    *Object // a struct_def: ordered named formal parameters
	Autos     *Object // a struct_def: ordered named stack locals
	PeakTemps int      // set by the liveness pass
}

// NewPrime constructs an unnamed Prime object with the given storage class.
func NewPrime(storage StorageClass) *Object {
	return &Object{storage: storage, variant: VariantPrime, Prime: &PrimeData{}}
}

// NewArray constructs an unnamed Array object around child, repeated count
// times. count must be positive.
func NewArray(storage StorageClass, count int, child *Object) (*Object, error) {
	if count <= 0 {
		return nil, diag.Errorf(diag.ConstructionError, "ir.NewArray", "count must be positive")
	}
	if child.variant == VariantRoutine {
		return nil, diag.Errorf(diag.BadCast, "ir.NewArray", "array child cannot be a routine")
	}
	return &Object{
		storage: storage,
		variant: VariantArray,
		Array:   &ArrayData{count: count, child: child},
	}, nil
}

// NewStructDef constructs an empty struct definition.
func NewStructDef(storage StorageClass) *Object {
	return &Object{
		storage:   storage,
		variant:   VariantStructDef,
		StructDef: &StructDefData{index: make(map[string]int)},
	}
}

// AddMember appends a named member to a struct definition in declaration
// order; member order is significant because it drives offset computation.
func (o *Object) AddMember(name string, member *Object) error {
	if o.variant != VariantStructDef {
		return diag.Errorf(diag.BadCast, "ir.AddMember", o.name)
	}
	if _, exists := o.StructDef.index[name]; exists {
		return diag.Errorf(diag.DuplicateName, "ir.AddMember", name)
	}
	o.StructDef.index[name] = len(o.StructDef.Members)
	o.StructDef.Members = append(o.StructDef.Members, Member{Name: name, Object: member})
	return nil
}

// Member looks up a member by name within a struct definition.
func (o *Object) Member(name string) (*Member, bool) {
	if o.variant != VariantStructDef {
		return nil, false
	}
	idx, ok := o.StructDef.index[name]
	if !ok {
		return nil, false
	}
	return &o.StructDef.Members[idx], true
}

// NewStructInst constructs a struct instance pointing at def.
func NewStructInst(storage StorageClass, def *Object) (*Object, error) {
	if def.variant != VariantStructDef {
		return nil, diag.Errorf(diag.BadCast, "ir.NewStructInst", "def must be a struct_def")
	}
	return &Object{
		storage:    storage,
		variant:    VariantStructInst,
		StructInst: &StructInstData{Def: def},
	}, nil
}

// NewRoutine constructs an empty routine. Storage class is restricted to
// private or public.
func NewRoutine(storage StorageClass) (*Object, error) {
	if storage != ClassPrivate && storage != ClassPublic {
		return nil, diag.Errorf(diag.InvalidStorageClass, "ir.NewRoutine", storage.String())
	}
	return &Object{
		storage: storage,
		variant: VariantRoutine,
		Routine: &RoutineData{
			Params: NewStructDef(ClassParam),
			Autos:  NewStructDef(ClassStack),
		},
	}, nil
}

// SetName sets the object's name exactly once.
func (o *Object) SetName(name string) error {
	if o.nameSet {
		return diag.Errorf(diag.ConstructionError, "ir.SetName", o.name)
	}
	if name == "" {
		return diag.Errorf(diag.Unnamed, "ir.SetName", "")
	}
	o.name = name
	o.nameSet = true
	return nil
}

func (o *Object) Name() string             { return o.name }
func (o *Object) Storage() StorageClass    { return o.storage }
func (o *Object) Variant() Variant         { return o.variant }
func (o *Object) SizeComputed() bool       { return o.sizeSet }

// Size returns the computed byte size. It is zero, and SizeComputed false,
// until the layout pass runs (routines are never sized).
func (o *Object) Size() int { return o.size }

// SetSize is called exactly once, by the layout pass.
func (o *Object) SetSize(n int) error {
	if o.sizeSet {
		return diag.Errorf(diag.ConstructionError, "ir.SetSize", o.name)
	}
	o.size = n
	o.sizeSet = true
	return nil
}

// Offset returns the byte offset assigned by the layout pass when this
// object is a member of a struct_def or a routine's parameter/automatic
// frame; zero and OffsetComputed false until then.
func (o *Object) Offset() int { return o.offset }

// OffsetComputed reports whether the layout pass has assigned an offset.
func (o *Object) OffsetComputed() bool { return o.offsetSet }

// SetOffset is called exactly once, by the layout pass, for any object
// that lives at a fixed offset within an enclosing struct_def or frame.
func (o *Object) SetOffset(n int) error {
	if o.offsetSet {
		return diag.Errorf(diag.ConstructionError, "ir.SetOffset", o.name)
	}
	o.offset = n
	o.offsetSet = true
	return nil
}

// SetWidth sets a Prime's width exactly once.
func (p *PrimeData) SetWidth(w Width) error {
	if p.widthSet {
		return diag.Errorf(diag.ConstructionError, "ir.SetWidth", "")
	}
	p.width = w
	p.widthSet = true
	return nil
}

func (p *PrimeData) Width() Width { return p.width }

// SetSigned sets a Prime's signedness exactly once.
func (p *PrimeData) SetSigned(signed bool) error {
	if p.signedSet {
		return diag.Errorf(diag.ConstructionError, "ir.SetSigned", "")
	}
	p.signed = signed
	p.signedSet = true
	return nil
}

func (p *PrimeData) Signed() bool { return p.signed }

// SetConst sets a Prime's constant value. Only meaningful when the owning
// Object's storage class is ClassConst.
func (p *PrimeData) SetConst(v int64) {
	p.constValue = v
	p.hasConst = true
}

func (p *PrimeData) ConstValue() (int64, bool) { return p.constValue, p.hasConst }

// SetInit attaches an initialiser byte vector to an array; its length must
// not exceed the array's total size (checked once the layout pass has run).
func (a *ArrayData) SetInit(b []byte) { a.init = b }

func (a *ArrayData) Init() []byte  { return a.init }
func (a *ArrayData) Count() int    { return a.count }
func (a *ArrayData) Child() *Object { return a.child }

// AddBlock appends a basic block to a routine; owned exclusively by it.
func (o *Object) AddBlock(b *Block) error {
	if o.variant != VariantRoutine {
		return diag.Errorf(diag.BadCast, "ir.AddBlock", o.name)
	}
	o.Routine.Blocks = append(o.Routine.Blocks, b)
	return nil
}
