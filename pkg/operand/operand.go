// Package operand implements the immutable/reference-counted operand model
// of the optimizer core: absolute constants, relocatable symbols (plain,
// procedure, or data), relocatables-with-addendum, and virtual registers.
package operand

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/google/uuid"
)

// Kind names the variant of an Operand. Is/As below do not read it: they
// dispatch on the operand's concrete Go type with a plain type assertion.
type Kind int

const (
	KindAbs Kind = iota
	KindRelBase
	KindRelDisp
	KindVReg
)

func (k Kind) String() string {
	switch k {
	case KindAbs:
		return "abs"
	case KindRelBase:
		return "rel_base"
	case KindRelDisp:
		return "rel_disp"
	case KindVReg:
		return "vreg"
	default:
		return "unknown"
	}
}

// Operand is the common interface shared by every operand variant. Equality
// of Operand values is identity equality (same Go pointer) except where the
// optimizer explicitly compares values — see ValueEqual.
type Operand interface {
	Kind() Kind
}

// Is reports whether o is a T, using a plain type assertion (tag dispatch),
// not runtime reflection.
func Is[T Operand](o Operand) bool {
	_, ok := o.(T)
	return ok
}

// As returns o viewed as a T and whether the view succeeded.
func As[T Operand](o Operand) (T, bool) {
	v, ok := o.(T)
	return v, ok
}

// IsImmediate reports whether o is compile-time-known: abs, rel_base, or
// rel_disp (anything but a vreg).
func IsImmediate(o Operand) bool {
	switch o.(type) {
	case *Abs, *RelBase, *RelDisp:
		return true
	default:
		return false
	}
}

// SymbolID is the 128-bit content hash identifying a procedure or data
// blob. It is represented as the two halves of a UUID so that debug output
// and test fixtures can use uuid.UUID's canonical string form.
type SymbolID [2]uint64

// NewSymbolID derives a content-hash SymbolID from an arbitrary seed
// string (e.g. a procedure's source name), for callers that need a stable,
// human-traceable identity rather than a random one.
func NewSymbolID(seed string) SymbolID {
	sum := sha256.Sum256([]byte(seed))
	return SymbolID{
		binary.BigEndian.Uint64(sum[0:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	}
}

// RandomSymbolID allocates a fresh, randomly-generated SymbolID.
func RandomSymbolID() SymbolID {
	id := uuid.New()
	return symbolIDFromUUID(id)
}

func symbolIDFromUUID(id uuid.UUID) SymbolID {
	return SymbolID{
		binary.BigEndian.Uint64(id[0:8]),
		binary.BigEndian.Uint64(id[8:16]),
	}
}

// String renders the SymbolID as a canonical UUID string.
func (s SymbolID) String() string {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], s[0])
	binary.BigEndian.PutUint64(b[8:16], s[1])
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		// uuid.FromBytes only fails on wrong-length input, which b never is.
		panic(err)
	}
	return id.String()
}

// Abs is an absolute 64-bit integer constant. abs(0) and abs(1) are
// interned per process: a procedure is never shared across goroutines, so
// a package-level intern is equivalent to a per-thread one and simpler.
type Abs struct {
	Value uint64
}

func (*Abs) Kind() Kind { return KindAbs }

var (
	absZero = &Abs{Value: 0}
	absOne  = &Abs{Value: 1}
)

// MakeAbs constructs an absolute constant, returning the interned instance
// for 0 and 1.
func MakeAbs(v uint64) *Abs {
	switch v {
	case 0:
		return absZero
	case 1:
		return absOne
	default:
		return &Abs{Value: v}
	}
}

// ProcPayload is implemented by pkg/ir.Procedure. A RelBase operand holds
// one of these when it denotes the "proc" subcase of rel_base; pkg/operand
// never imports pkg/ir, so it only needs to know a proc has a SymbolID.
type ProcPayload interface {
	SymbolID() SymbolID
}

// DataPayload is the "data" subcase of rel_base: an owned, ordered sequence
// of immediate operand values.
type DataPayload struct {
	id   SymbolID
	Imms []Operand
}

func (d *DataPayload) SymbolID() SymbolID { return d.id }

// RelBase is a relocatable symbol, identified by a 128-bit content hash.
// Proc and Data are mutually exclusive; when both are nil, the RelBase is a
// plain externally-defined symbol.
type RelBase struct {
	ID   SymbolID
	Proc ProcPayload
	Data *DataPayload
}

func (*RelBase) Kind() Kind { return KindRelBase }

// MakeRelBase constructs a plain, externally-defined relocatable symbol.
func MakeRelBase(id SymbolID) *RelBase {
	return &RelBase{ID: id}
}

// MakeData constructs a rel_base in its "data" subcase: an owned sequence
// of immediate values.
func MakeData(id SymbolID, imms []Operand) *RelBase {
	return &RelBase{ID: id, Data: &DataPayload{id: id, Imms: imms}}
}

// BindProc attaches a procedure payload to a RelBase after construction.
// pkg/ir calls this exactly once, when a Procedure is created, to make
// itself usable as a call-target operand.
func (b *RelBase) BindProc(p ProcPayload) {
	b.Proc = p
}

// IsProc reports whether this RelBase denotes a procedure.
func (b *RelBase) IsProc() bool { return b.Proc != nil }

// IsData reports whether this RelBase denotes a data blob.
func (b *RelBase) IsData() bool { return b.Data != nil }

// RelDisp is a relocatable with a non-zero addendum. Constructors maintain
// the invariant add != 0; use MakeRelDisp, which collapses back to the bare
// RelBase when add is zero.
type RelDisp struct {
	Base *RelBase
	Add  uint64
}

func (*RelDisp) Kind() Kind { return KindRelDisp }

// MakeRelDisp constructs base+add, collapsing to base itself when add==0.
func MakeRelDisp(base *RelBase, add uint64) Operand {
	if add == 0 {
		return base
	}
	return &RelDisp{Base: base, Add: add}
}

// VReg is a virtual register. Its identity, not its bits, is what matters:
// two *VReg values are the same register iff they are the same pointer.
// Num is scratch storage for whichever pass currently numbers registers;
// passes must (re)initialize it before reading.
type VReg struct {
	seq uint64
	Num int
}

func (*VReg) Kind() Kind { return KindVReg }

var vregSeq uint64

// MakeVReg allocates a fresh virtual register.
func MakeVReg() *VReg {
	vregSeq++
	return &VReg{seq: vregSeq}
}

// Seq returns a process-unique, stable sequence number for debug printing;
// it has no bearing on register identity, which is always pointer identity.
func (v *VReg) Seq() uint64 { return v.seq }

// RelBaseID returns the identifying SymbolID of a RelBase or RelDisp's
// base, used by the explicit value-equality comparisons the optimizer
// performs between relocatables (their symbol id and addendum) rather than
// their pointer identity.
func RelBaseID(o Operand) (SymbolID, uint64, bool) {
	switch v := o.(type) {
	case *RelBase:
		return v.ID, 0, true
	case *RelDisp:
		return v.Base.ID, v.Add, true
	default:
		return SymbolID{}, 0, false
	}
}

// ValueEqual reports whether two operands are the same compile-time value:
// equal Abs.Value, or equal relocatable ID and addendum. VRegs compare by
// identity only: a VReg equals itself, and two distinct VRegs never match.
func ValueEqual(a, b Operand) bool {
	if a == b {
		return true
	}
	if av, ok := a.(*Abs); ok {
		bv, ok := b.(*Abs)
		return ok && av.Value == bv.Value
	}
	aID, aAdd, aOK := RelBaseID(a)
	bID, bAdd, bOK := RelBaseID(b)
	if aOK && bOK {
		return aID == bID && aAdd == bAdd
	}
	return false
}
