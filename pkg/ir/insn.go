package ir

import "github.com/irx-lang/irx-optimizer/pkg/operand"

// BinOp enumerates the binop instruction's arithmetic/logical operator.
type BinOp int

const (
	Add BinOp = iota
	Sub
	UMul
	UDiv
	URem
	SMul
	SDiv
	SRem
	And
	Or
	Xor
	Shl
	Ushr
	Sshr
)

func (op BinOp) String() string {
	return [...]string{
		"add", "sub", "umul", "udiv", "urem", "smul", "sdiv", "srem",
		"and", "or", "xor", "shl", "ushr", "sshr",
	}[op]
}

// Commutative reports whether swapping this binop's operands preserves its
// result, used by the simplifier's canonicalization rule.
func (op BinOp) Commutative() bool {
	switch op {
	case Add, UMul, SMul, And, Or, Xor:
		return true
	default:
		return false
	}
}

// BrOp enumerates the two-way conditional branch's comparison.
type BrOp int

const (
	BEq BrOp = iota
	BULt
	BSLt
)

func (op BrOp) String() string {
	return [...]string{"beq", "bult", "bslt"}[op]
}

// Instruction is the uniform accessor protocol shared by all twelve
// variants: every instruction reports its owning block, its position in
// the block's instruction list, its def/use/successor shape, and whether
// it terminates its block.
type Instruction interface {
	Owner() *BasicBlock
	Next() Instruction
	Prev() Instruction

	// Inputs returns the operands read by this instruction, in a
	// caller-owned slice safe to mutate.
	Inputs() []operand.Operand
	// Outputs returns the vregs defined by this instruction.
	Outputs() []*operand.VReg
	// Targets returns the blocks this instruction may transfer control to.
	// Non-terminators always return nil.
	Targets() []*BasicBlock

	IsTerminator() bool
	// IsPure reports whether this instruction has no side effect and no
	// dynamic trap risk; call/load/store/oops are always impure, binop
	// division/remainder is impure only when the divisor is not provably
	// nonzero.
	IsPure() bool

	// Clone duplicates this instruction with its owner left nil, remapping
	// every vreg through vregs and every block target through blocks. Used
	// by the simplifier's call-inlining rule.
	Clone(vregs map[*operand.VReg]*operand.VReg, blocks map[*BasicBlock]*BasicBlock) Instruction

	header() *insnHeader
}

// insnHeader is the intrusive doubly-linked-list node shared by every
// instruction variant, giving O(1) Eliminate/Reattach regardless of block
// size.
type insnHeader struct {
	owner      *BasicBlock
	next, prev Instruction
}

func (h *insnHeader) Owner() *BasicBlock { return h.owner }
func (h *insnHeader) Next() Instruction  { return h.next }
func (h *insnHeader) Prev() Instruction  { return h.prev }
func (h *insnHeader) header() *insnHeader { return h }

// insertAtEnd appends insn to the end of b's instruction list.
func (b *BasicBlock) insertAtEnd(insn Instruction) {
	h := insn.header()
	h.owner = b
	h.prev = b.rear
	h.next = nil
	if b.rear != nil {
		b.rear.header().next = insn
	} else {
		b.head = insn
	}
	b.rear = insn
}

// insertBefore splices insn into sibling's block immediately before sibling.
func insertBefore(sibling, insn Instruction) {
	b := sibling.Owner()
	h := insn.header()
	sh := sibling.header()
	h.owner = b
	h.next = sibling
	h.prev = sh.prev
	if sh.prev != nil {
		sh.prev.header().next = insn
	} else {
		b.head = insn
	}
	sh.prev = insn
}

// InsertionPoint designates where a newly-constructed instruction lands:
// either at the end of a block, or immediately before an existing sibling.
type InsertionPoint struct {
	block   *BasicBlock
	sibling Instruction
}

// AtEnd inserts new instructions at the end of b.
func AtEnd(b *BasicBlock) InsertionPoint { return InsertionPoint{block: b} }

// Before inserts new instructions immediately before sibling, in sibling's
// own block.
func Before(sibling Instruction) InsertionPoint { return InsertionPoint{sibling: sibling} }

func (ip InsertionPoint) place(insn Instruction) {
	if ip.sibling != nil {
		insertBefore(ip.sibling, insn)
		return
	}
	ip.block.insertAtEnd(insn)
}

// Eliminate detaches insn from its owning block and destroys it. After
// Eliminate, insn must not be used again.
func Eliminate(insn Instruction) {
	h := insn.header()
	b := h.owner
	if b == nil {
		return
	}
	if h.prev != nil {
		h.prev.header().next = h.next
	} else {
		b.head = h.next
	}
	if h.next != nil {
		h.next.header().prev = h.prev
	} else {
		b.rear = h.prev
	}
	h.owner, h.next, h.prev = nil, nil, nil
}

// Reattach detaches insn and reinserts it at ip, possibly in a different
// block, without destroying it.
func Reattach(insn Instruction, ip InsertionPoint) {
	Eliminate(insn)
	ip.place(insn)
}

// --- entry ---

type EntryInsn struct {
	insnHeader
	Params []*operand.VReg
}

func NewEntry(ip InsertionPoint, params []*operand.VReg) *EntryInsn {
	i := &EntryInsn{Params: params}
	ip.place(i)
	return i
}

func (i *EntryInsn) Inputs() []operand.Operand   { return nil }
func (i *EntryInsn) Outputs() []*operand.VReg     { return i.Params }
func (i *EntryInsn) Targets() []*BasicBlock       { return nil }
func (i *EntryInsn) IsTerminator() bool           { return false }
func (i *EntryInsn) IsPure() bool                 { return true }
func (i *EntryInsn) Clone(vregs map[*operand.VReg]*operand.VReg, _ map[*BasicBlock]*BasicBlock) Instruction {
	params := make([]*operand.VReg, len(i.Params))
	for k, p := range i.Params {
		params[k] = remapVReg(vregs, p)
	}
	return &EntryInsn{Params: params}
}

// --- ret ---

type RetInsn struct {
	insnHeader
	Results []operand.Operand
}

func NewRet(ip InsertionPoint, results []operand.Operand) *RetInsn {
	i := &RetInsn{Results: results}
	ip.place(i)
	return i
}

func (i *RetInsn) Inputs() []operand.Operand { return append([]operand.Operand(nil), i.Results...) }
func (i *RetInsn) Outputs() []*operand.VReg   { return nil }
func (i *RetInsn) Targets() []*BasicBlock     { return nil }
func (i *RetInsn) IsTerminator() bool         { return true }
func (i *RetInsn) IsPure() bool               { return false }
func (i *RetInsn) Clone(vregs map[*operand.VReg]*operand.VReg, blocks map[*BasicBlock]*BasicBlock) Instruction {
	results := make([]operand.Operand, len(i.Results))
	for k, r := range i.Results {
		results[k] = remapOperand(vregs, r)
	}
	return &RetInsn{Results: results}
}

// --- call ---

type CallInsn struct {
	insnHeader
	Callee  operand.Operand
	Args    []operand.Operand
	Results []*operand.VReg
}

func NewCall(ip InsertionPoint, callee operand.Operand, args []operand.Operand, results []*operand.VReg) *CallInsn {
	i := &CallInsn{Callee: callee, Args: args, Results: results}
	ip.place(i)
	return i
}

func (i *CallInsn) Inputs() []operand.Operand {
	in := make([]operand.Operand, 0, len(i.Args)+1)
	in = append(in, i.Args...)
	in = append(in, i.Callee)
	return in
}
func (i *CallInsn) Outputs() []*operand.VReg { return i.Results }
func (i *CallInsn) Targets() []*BasicBlock   { return nil }
func (i *CallInsn) IsTerminator() bool       { return false }
func (i *CallInsn) IsPure() bool             { return false }
func (i *CallInsn) Clone(vregs map[*operand.VReg]*operand.VReg, blocks map[*BasicBlock]*BasicBlock) Instruction {
	args := make([]operand.Operand, len(i.Args))
	for k, a := range i.Args {
		args[k] = remapOperand(vregs, a)
	}
	results := make([]*operand.VReg, len(i.Results))
	for k, r := range i.Results {
		results[k] = remapVReg(vregs, r)
	}
	return &CallInsn{Callee: remapOperand(vregs, i.Callee), Args: args, Results: results}
}

// --- mov ---

type MovInsn struct {
	insnHeader
	Src  operand.Operand
	Dest *operand.VReg
}

func NewMov(ip InsertionPoint, src operand.Operand, dest *operand.VReg) *MovInsn {
	i := &MovInsn{Src: src, Dest: dest}
	ip.place(i)
	return i
}

func (i *MovInsn) Inputs() []operand.Operand { return []operand.Operand{i.Src} }
func (i *MovInsn) Outputs() []*operand.VReg   { return []*operand.VReg{i.Dest} }
func (i *MovInsn) Targets() []*BasicBlock     { return nil }
func (i *MovInsn) IsTerminator() bool         { return false }
func (i *MovInsn) IsPure() bool               { return true }
func (i *MovInsn) Clone(vregs map[*operand.VReg]*operand.VReg, _ map[*BasicBlock]*BasicBlock) Instruction {
	return &MovInsn{Src: remapOperand(vregs, i.Src), Dest: remapVReg(vregs, i.Dest)}
}

// --- load ---

type LoadInsn struct {
	insnHeader
	Addr operand.Operand
	Dest *operand.VReg
}

func NewLoad(ip InsertionPoint, addr operand.Operand, dest *operand.VReg) *LoadInsn {
	i := &LoadInsn{Addr: addr, Dest: dest}
	ip.place(i)
	return i
}

func (i *LoadInsn) Inputs() []operand.Operand { return []operand.Operand{i.Addr} }
func (i *LoadInsn) Outputs() []*operand.VReg   { return []*operand.VReg{i.Dest} }
func (i *LoadInsn) Targets() []*BasicBlock     { return nil }
func (i *LoadInsn) IsTerminator() bool         { return false }
func (i *LoadInsn) IsPure() bool               { return false }
func (i *LoadInsn) Clone(vregs map[*operand.VReg]*operand.VReg, _ map[*BasicBlock]*BasicBlock) Instruction {
	return &LoadInsn{Addr: remapOperand(vregs, i.Addr), Dest: remapVReg(vregs, i.Dest)}
}

// --- store ---

type StoreInsn struct {
	insnHeader
	Src  operand.Operand
	Addr operand.Operand
}

func NewStore(ip InsertionPoint, src, addr operand.Operand) *StoreInsn {
	i := &StoreInsn{Src: src, Addr: addr}
	ip.place(i)
	return i
}

func (i *StoreInsn) Inputs() []operand.Operand { return []operand.Operand{i.Src, i.Addr} }
func (i *StoreInsn) Outputs() []*operand.VReg   { return nil }
func (i *StoreInsn) Targets() []*BasicBlock     { return nil }
func (i *StoreInsn) IsTerminator() bool         { return false }
func (i *StoreInsn) IsPure() bool               { return false }
func (i *StoreInsn) Clone(vregs map[*operand.VReg]*operand.VReg, _ map[*BasicBlock]*BasicBlock) Instruction {
	return &StoreInsn{Src: remapOperand(vregs, i.Src), Addr: remapOperand(vregs, i.Addr)}
}

// --- binop ---

type BinopInsn struct {
	insnHeader
	Op   BinOp
	Lhs  operand.Operand
	Rhs  operand.Operand
	Dest *operand.VReg
}

func NewBinop(ip InsertionPoint, op BinOp, lhs, rhs operand.Operand, dest *operand.VReg) *BinopInsn {
	i := &BinopInsn{Op: op, Lhs: lhs, Rhs: rhs, Dest: dest}
	ip.place(i)
	return i
}

func (i *BinopInsn) Inputs() []operand.Operand { return []operand.Operand{i.Lhs, i.Rhs} }
func (i *BinopInsn) Outputs() []*operand.VReg   { return []*operand.VReg{i.Dest} }
func (i *BinopInsn) Targets() []*BasicBlock     { return nil }
func (i *BinopInsn) IsTerminator() bool         { return false }

// IsPure reports the static purity approximation: all binops are pure
// except the four division/remainder ops, whose purity additionally
// requires the divisor to be a nonzero constant.
func (i *BinopInsn) IsPure() bool {
	switch i.Op {
	case UDiv, URem, SDiv, SRem:
		if a, ok := operand.As[*operand.Abs](i.Rhs); ok {
			return a.Value != 0
		}
		return false
	default:
		return true
	}
}

func (i *BinopInsn) Clone(vregs map[*operand.VReg]*operand.VReg, _ map[*BasicBlock]*BasicBlock) Instruction {
	return &BinopInsn{Op: i.Op, Lhs: remapOperand(vregs, i.Lhs), Rhs: remapOperand(vregs, i.Rhs), Dest: remapVReg(vregs, i.Dest)}
}

// --- jmp ---

type JmpInsn struct {
	insnHeader
	Dest *BasicBlock
}

func NewJmp(ip InsertionPoint, dest *BasicBlock) *JmpInsn {
	i := &JmpInsn{Dest: dest}
	ip.place(i)
	return i
}

func (i *JmpInsn) Inputs() []operand.Operand { return nil }
func (i *JmpInsn) Outputs() []*operand.VReg   { return nil }
func (i *JmpInsn) Targets() []*BasicBlock     { return []*BasicBlock{i.Dest} }
func (i *JmpInsn) IsTerminator() bool         { return true }
func (i *JmpInsn) IsPure() bool               { return false }
func (i *JmpInsn) Clone(_ map[*operand.VReg]*operand.VReg, blocks map[*BasicBlock]*BasicBlock) Instruction {
	return &JmpInsn{Dest: remapBlock(blocks, i.Dest)}
}

// --- br ---

type BrInsn struct {
	insnHeader
	Op              BrOp
	Lhs, Rhs        operand.Operand
	Taken, NotTaken *BasicBlock
}

func NewBr(ip InsertionPoint, op BrOp, lhs, rhs operand.Operand, taken, notTaken *BasicBlock) *BrInsn {
	i := &BrInsn{Op: op, Lhs: lhs, Rhs: rhs, Taken: taken, NotTaken: notTaken}
	ip.place(i)
	return i
}

func (i *BrInsn) Inputs() []operand.Operand { return []operand.Operand{i.Lhs, i.Rhs} }
func (i *BrInsn) Outputs() []*operand.VReg   { return nil }
func (i *BrInsn) Targets() []*BasicBlock     { return []*BasicBlock{i.Taken, i.NotTaken} }
func (i *BrInsn) IsTerminator() bool         { return true }
func (i *BrInsn) IsPure() bool               { return false }
func (i *BrInsn) Clone(vregs map[*operand.VReg]*operand.VReg, blocks map[*BasicBlock]*BasicBlock) Instruction {
	return &BrInsn{
		Op: i.Op, Lhs: remapOperand(vregs, i.Lhs), Rhs: remapOperand(vregs, i.Rhs),
		Taken: remapBlock(blocks, i.Taken), NotTaken: remapBlock(blocks, i.NotTaken),
	}
}

// --- switch_br ---

type SwitchBrInsn struct {
	insnHeader
	Index operand.Operand
	Dests []*BasicBlock
}

func NewSwitchBr(ip InsertionPoint, index operand.Operand, dests []*BasicBlock) *SwitchBrInsn {
	i := &SwitchBrInsn{Index: index, Dests: dests}
	ip.place(i)
	return i
}

func (i *SwitchBrInsn) Inputs() []operand.Operand { return []operand.Operand{i.Index} }
func (i *SwitchBrInsn) Outputs() []*operand.VReg   { return nil }
func (i *SwitchBrInsn) Targets() []*BasicBlock     { return append([]*BasicBlock(nil), i.Dests...) }
func (i *SwitchBrInsn) IsTerminator() bool         { return true }
func (i *SwitchBrInsn) IsPure() bool               { return false }
func (i *SwitchBrInsn) Clone(vregs map[*operand.VReg]*operand.VReg, blocks map[*BasicBlock]*BasicBlock) Instruction {
	dests := make([]*BasicBlock, len(i.Dests))
	for k, d := range i.Dests {
		dests[k] = remapBlock(blocks, d)
	}
	return &SwitchBrInsn{Index: remapOperand(vregs, i.Index), Dests: dests}
}

// --- oops ---

// OopsInsn is a runtime trap marker: the optimizer's way of lowering a
// guest-program fault (divide by literal zero, signed-overflow division,
// out-of-range switch, call-arity mismatch) without aborting compilation.
type OopsInsn struct {
	insnHeader
}

func NewOops(ip InsertionPoint) *OopsInsn {
	i := &OopsInsn{}
	ip.place(i)
	return i
}

func (i *OopsInsn) Inputs() []operand.Operand { return nil }
func (i *OopsInsn) Outputs() []*operand.VReg   { return nil }
func (i *OopsInsn) Targets() []*BasicBlock     { return nil }
func (i *OopsInsn) IsTerminator() bool         { return true }
func (i *OopsInsn) IsPure() bool               { return false }
func (i *OopsInsn) Clone(_ map[*operand.VReg]*operand.VReg, _ map[*BasicBlock]*BasicBlock) Instruction {
	return &OopsInsn{}
}

// --- phi ---

type PhiInsn struct {
	insnHeader
	Args []operand.Operand
	Dest *operand.VReg
}

func NewPhi(ip InsertionPoint, args []operand.Operand, dest *operand.VReg) *PhiInsn {
	i := &PhiInsn{Args: args, Dest: dest}
	ip.place(i)
	return i
}

func (i *PhiInsn) Inputs() []operand.Operand { return append([]operand.Operand(nil), i.Args...) }
func (i *PhiInsn) Outputs() []*operand.VReg   { return []*operand.VReg{i.Dest} }
func (i *PhiInsn) Targets() []*BasicBlock     { return nil }
func (i *PhiInsn) IsTerminator() bool         { return false }
func (i *PhiInsn) IsPure() bool               { return true }
func (i *PhiInsn) Clone(vregs map[*operand.VReg]*operand.VReg, _ map[*BasicBlock]*BasicBlock) Instruction {
	args := make([]operand.Operand, len(i.Args))
	for k, a := range i.Args {
		args[k] = remapOperand(vregs, a)
	}
	return &PhiInsn{Args: args, Dest: remapVReg(vregs, i.Dest)}
}

// --- clone helpers ---

func remapVReg(vregs map[*operand.VReg]*operand.VReg, v *operand.VReg) *operand.VReg {
	if v == nil {
		return nil
	}
	if r, ok := vregs[v]; ok {
		return r
	}
	r := operand.MakeVReg()
	vregs[v] = r
	return r
}

func remapOperand(vregs map[*operand.VReg]*operand.VReg, o operand.Operand) operand.Operand {
	if v, ok := operand.As[*operand.VReg](o); ok {
		return remapVReg(vregs, v)
	}
	return o
}

func remapBlock(blocks map[*BasicBlock]*BasicBlock, b *BasicBlock) *BasicBlock {
	if b == nil {
		return nil
	}
	if r, ok := blocks[b]; ok {
		return r
	}
	return b
}
