// Package irtext is the one concrete build_ir() collaborator this
// repository ships (§6 of the core spec treats build_ir as an external,
// out-of-scope peripheral — the MPL source-language front-end is never
// implemented here). It reads a small line-oriented textual encoding of
// the IR itself — object declarations and per-routine instruction
// streams — and populates an ir.Container, so the pipeline and the CLI
// have something concrete to run end to end. It is not a language
// front-end: there is no grammar beyond "one declaration or one
// instruction per line."
package irtext

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"mplcg/diag"
	"mplcg/ir"
)

// Program is a loaded, name-indexed IR plus each routine's raw,
// un-partitioned instruction stream (block forming happens separately,
// once the whole file has been read). Instruction operands are resolved
// by name as each line is read, so an instruction can only name objects
// declared earlier in the file.
type Program struct {
	Container *ir.Container
	Streams   map[string][]ir.Instruction
}

var widthNames = map[string]ir.Width{
	"byte": ir.WidthByte, "byte2": ir.WidthByte2, "byte4": ir.WidthByte4,
	"byte8": ir.WidthByte8, "word": ir.WidthWord, "ptr": ir.WidthPtr, "max": ir.WidthMax,
}

var storageNames = map[string]ir.StorageClass{
	"private": ir.ClassPrivate, "public": ir.ClassPublic, "extern": ir.ClassExtern,
	"stack": ir.ClassStack, "param": ir.ClassParam, "member": ir.ClassMember,
	"temp": ir.ClassTemp, "const": ir.ClassConst,
}

// Load reads the textual IR format from r. Grammar, one statement per
// non-blank, non-comment (';'-prefixed) line:
//
//	prime NAME STORAGE WIDTH (signed|unsigned) [VALUE]
//	array NAME STORAGE COUNT CHILD
//	structdef NAME STORAGE
//	member STRUCTDEF NAME TYPE
//	structinst NAME STORAGE DEF
//	routine NAME STORAGE
//	param ROUTINE NAME TYPE
//	auto ROUTINE NAME TYPE
//	code ROUTINE
//	  OP RESULT LEFT RIGHT   (each operand is a name or "_" for null)
//	endcode
func Load(r io.Reader) (*Program, error) {
	p := &Program{Container: ir.NewContainer(), Streams: make(map[string][]ir.Instruction)}
	scanner := bufio.NewScanner(r)
	var curRoutine string
	var inCode bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)

		if inCode {
			if fields[0] == "endcode" {
				inCode = false
				curRoutine = ""
				continue
			}
			inst, err := p.parseInstruction(fields)
			if err != nil {
				return nil, err
			}
			p.Streams[curRoutine] = append(p.Streams[curRoutine], inst)
			continue
		}

		switch fields[0] {
		case "prime":
			if err := p.declarePrime(fields); err != nil {
				return nil, err
			}
		case "array":
			if err := p.declareArray(fields); err != nil {
				return nil, err
			}
		case "structdef":
			if err := p.declareStructDef(fields); err != nil {
				return nil, err
			}
		case "member":
			if err := p.declareMember(fields); err != nil {
				return nil, err
			}
		case "structinst":
			if err := p.declareStructInst(fields); err != nil {
				return nil, err
			}
		case "routine":
			if err := p.declareRoutine(fields); err != nil {
				return nil, err
			}
		case "param":
			if err := p.declareParam(fields); err != nil {
				return nil, err
			}
		case "auto":
			if err := p.declareAuto(fields); err != nil {
				return nil, err
			}
		case "code":
			if len(fields) != 2 {
				return nil, diag.Errorf(diag.ConstructionError, "irtext.Load", "code")
			}
			curRoutine = fields[1]
			inCode = true
		default:
			return nil, diag.Errorf(diag.ConstructionError, "irtext.Load", fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Program) declarePrime(fields []string) error {
	if len(fields) < 4 {
		return diag.Errorf(diag.ConstructionError, "irtext.declarePrime", strings.Join(fields, " "))
	}
	name, storageName, widthName := fields[1], fields[2], fields[3]
	storage, ok := storageNames[storageName]
	if !ok {
		return diag.Errorf(diag.InvalidStorageClass, "irtext.declarePrime", storageName)
	}
	width, ok := widthNames[widthName]
	if !ok {
		return diag.Errorf(diag.InvalidWidth, "irtext.declarePrime", widthName)
	}
	obj := ir.NewPrime(storage)
	if err := obj.Prime.SetWidth(width); err != nil {
		return err
	}
	signed := len(fields) > 4 && fields[4] == "signed"
	if err := obj.Prime.SetSigned(signed); err != nil {
		return err
	}
	if len(fields) > 5 {
		v, err := strconv.ParseInt(fields[5], 10, 64)
		if err != nil {
			return err
		}
		obj.Prime.SetConst(v)
	}
	if err := obj.SetName(name); err != nil {
		return err
	}
	return p.Container.Add(obj)
}

func (p *Program) declareArray(fields []string) error {
	if len(fields) != 5 {
		return diag.Errorf(diag.ConstructionError, "irtext.declareArray", strings.Join(fields, " "))
	}
	name, storageName, countStr, childName := fields[1], fields[2], fields[3], fields[4]
	storage, ok := storageNames[storageName]
	if !ok {
		return diag.Errorf(diag.InvalidStorageClass, "irtext.declareArray", storageName)
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return err
	}
	child, err := p.Container.Find(childName)
	if err != nil {
		return err
	}
	obj, err := ir.NewArray(storage, count, child)
	if err != nil {
		return err
	}
	if err := obj.SetName(name); err != nil {
		return err
	}
	return p.Container.Add(obj)
}

func (p *Program) declareStructDef(fields []string) error {
	if len(fields) != 3 {
		return diag.Errorf(diag.ConstructionError, "irtext.declareStructDef", strings.Join(fields, " "))
	}
	storage, ok := storageNames[fields[2]]
	if !ok {
		return diag.Errorf(diag.InvalidStorageClass, "irtext.declareStructDef", fields[2])
	}
	obj := ir.NewStructDef(storage)
	if err := obj.SetName(fields[1]); err != nil {
		return err
	}
	return p.Container.Add(obj)
}

func (p *Program) declareMember(fields []string) error {
	if len(fields) != 4 {
		return diag.Errorf(diag.ConstructionError, "irtext.declareMember", strings.Join(fields, " "))
	}
	def, err := p.Container.Find(fields[1])
	if err != nil {
		return err
	}
	member, err := p.Container.Find(fields[3])
	if err != nil {
		return err
	}
	return def.AddMember(fields[2], member)
}

func (p *Program) declareStructInst(fields []string) error {
	if len(fields) != 4 {
		return diag.Errorf(diag.ConstructionError, "irtext.declareStructInst", strings.Join(fields, " "))
	}
	storage, ok := storageNames[fields[2]]
	if !ok {
		return diag.Errorf(diag.InvalidStorageClass, "irtext.declareStructInst", fields[2])
	}
	def, err := p.Container.Find(fields[3])
	if err != nil {
		return err
	}
	obj, err := ir.NewStructInst(storage, def)
	if err != nil {
		return err
	}
	if err := obj.SetName(fields[1]); err != nil {
		return err
	}
	return p.Container.Add(obj)
}

func (p *Program) declareRoutine(fields []string) error {
	if len(fields) != 3 {
		return diag.Errorf(diag.ConstructionError, "irtext.declareRoutine", strings.Join(fields, " "))
	}
	storage, ok := storageNames[fields[2]]
	if !ok {
		return diag.Errorf(diag.InvalidStorageClass, "irtext.declareRoutine", fields[2])
	}
	obj, err := ir.NewRoutine(storage)
	if err != nil {
		return err
	}
	if err := obj.SetName(fields[1]); err != nil {
		return err
	}
	return p.Container.Add(obj)
}

func (p *Program) declareParam(fields []string) error {
	if len(fields) != 4 {
		return diag.Errorf(diag.ConstructionError, "irtext.declareParam", strings.Join(fields, " "))
	}
	routine, err := p.Container.Find(fields[1])
	if err != nil {
		return err
	}
	typ, err := p.Container.Find(fields[3])
	if err != nil {
		return err
	}
	return routine.Routine.Params.AddMember(fields[2], typ)
}

func (p *Program) declareAuto(fields []string) error {
	if len(fields) != 4 {
		return diag.Errorf(diag.ConstructionError, "irtext.declareAuto", strings.Join(fields, " "))
	}
	routine, err := p.Container.Find(fields[1])
	if err != nil {
		return err
	}
	typ, err := p.Container.Find(fields[3])
	if err != nil {
		return err
	}
	return routine.Routine.Autos.AddMember(fields[2], typ)
}

func (p *Program) resolveOperand(name string) (*ir.Object, error) {
	if name == "_" {
		return nil, nil
	}
	return p.Container.Find(name)
}

func (p *Program) parseInstruction(fields []string) (ir.Instruction, error) {
	if len(fields) < 1 {
		return ir.Instruction{}, diag.Errorf(diag.ConstructionError, "irtext.parseInstruction", "")
	}
	op, ok := ir.ParseOpcode(fields[0])
	if !ok {
		return ir.Instruction{}, diag.Errorf(diag.UnknownOpcode, "irtext.parseInstruction", fields[0])
	}
	operand := func(i int) (*ir.Object, error) {
		if i >= len(fields) {
			return nil, nil
		}
		return p.resolveOperand(fields[i])
	}
	result, err := operand(1)
	if err != nil {
		return ir.Instruction{}, err
	}
	left, err := operand(2)
	if err != nil {
		return ir.Instruction{}, err
	}
	right, err := operand(3)
	if err != nil {
		return ir.Instruction{}, err
	}
	return ir.Instruction{
		Op:     op,
		Result: ir.Operand{Object: result},
		Left:   ir.Operand{Object: left},
		Right:  ir.Operand{Object: right},
	}, nil
}
