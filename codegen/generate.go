package codegen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/GregorR/sfjit/nfa"
)

// Generator accumulates a Sink's emitted statements and renders them as
// one Go source function body via jennifer. It is grounded directly on
// regengo's label-per-instruction, goto-threaded, stack-backed-backtrack
// compiler: every compiled Branch becomes a push of a resume point onto a
// fallback stack, and matching proceeds by trying the fallthrough edge
// first, only popping the stack when a predicate fails.
type Generator struct {
	stmts []jen.Code
}

// NewGenerator returns an empty Generator, ready to receive Emit* calls.
func NewGenerator() *Generator { return &Generator{} }

func asCode(o Operand) jen.Code {
	c, ok := o.(jen.Code)
	if !ok {
		panic(fmt.Sprintf("codegen: operand %#v is not a jen.Code", o))
	}
	return c
}

func labelName(l Label) string { return fmt.Sprintf("inst%d", int(l)) }

// Lit wraps a literal value as an Operand suitable for the Emit* calls.
func Lit(v interface{}) Operand { return jen.Lit(v) }

// Id wraps a bare identifier as an Operand.
func Id(name string) Operand { return jen.Id(name) }

func (g *Generator) EmitMove(dst, src Operand) {
	g.stmts = append(g.stmts, jen.Add(asCode(dst)).Op("=").Add(asCode(src)))
}

func (g *Generator) EmitOp2(op string, dst, a, b Operand) {
	g.stmts = append(g.stmts, jen.Add(asCode(dst)).Op("=").Add(asCode(a)).Op(op).Add(asCode(b)))
}

func (g *Generator) EmitBranchIf(cond Operand, target Label) {
	g.stmts = append(g.stmts, jen.If(asCode(cond)).Block(jen.Goto().Id(labelName(target))))
}

func (g *Generator) EmitIJump(target Label) {
	g.stmts = append(g.stmts, jen.Goto().Id(labelName(target)))
}

func (g *Generator) EmitLabel(target Label) {
	g.stmts = append(g.stmts, jen.Id(labelName(target)).Op(":"))
}

// EmitEnter is a no-op: the emitted function is a plain Go function, so
// there is no register window to set up on frame entry. It exists to
// satisfy Sink; a target with an explicit call frame (a bytecode VM
// written in C, say) would use it to push one.
func (g *Generator) EmitEnter() {}

func (g *Generator) EmitReturn(values ...Operand) {
	codes := make([]jen.Code, len(values))
	for i, v := range values {
		codes[i] = asCode(v)
	}
	g.stmts = append(g.stmts, jen.Return(codes...))
}

func (g *Generator) GenerateCode() (string, error) {
	f := jen.NewFile("generated")
	for _, s := range g.stmts {
		f.Add(s)
	}
	var buf strings.Builder
	if err := f.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (g *Generator) LabelAddr(l Label) int { return int(l) }

func classExpr(cls *nfa.CharClass) jen.Code {
	ch := jen.Id("ch")
	var terms []jen.Code
	for _, c := range cls.Chars {
		terms = append(terms, jen.Add(ch).Op("==").Lit(c))
	}
	for _, r := range cls.Ranges {
		terms = append(terms, jen.Parens(jen.Add(ch).Op(">=").Lit(r.Lo).Op("&&").Add(ch).Op("<=").Lit(r.Hi)))
	}
	var in jen.Code
	if len(terms) == 0 {
		in = jen.Lit(false)
	} else {
		in = terms[0]
		for _, t := range terms[1:] {
			in = jen.Parens(jen.Add(in).Op("||").Add(t))
		}
	}
	if cls.Invert {
		return jen.Op("!").Parens(in)
	}
	return in
}

// Generate lowers m's compiled program onto a Generator and renders the
// result as a self-contained Go source file defining two functions:
// <funcName>At, a single-start-position backtracking matcher, and
// <funcName>, which scans every start position for the leftmost match.
//
// The generated matcher is a backtracker that returns the first path to
// reach End: at every Branch it tries the fallthrough edge before the
// Branch's target. For a loop entry, "?" and alternation the fallthrough
// is the body or the first alternative; for the loop-back Branch that
// closes "*" and "+" it is the loop exit, so each loop stops at its
// first completion. It does not reproduce nfa.Match's longest-match
// result, and it ignores NonGreedy.
func Generate(m *nfa.Machine, funcName string) (string, error) {
	g := NewGenerator()
	g.EmitEnter()

	for i := 0; i < len(m.Program); i++ {
		ins := m.Program[i]
		g.EmitLabel(Label(i))
		switch ins.Kind {
		case nfa.RngStart, nfa.RngChar, nfa.RngLeft, nfa.RngRight:
			// Absorbed into the class check emitted at the matching
			// RngEnd; the label here exists only so a Branch/Jump that
			// happens to target a class's opening instructions still
			// resolves, and falls through to it.
		case nfa.Begin:
			g.EmitIJump(Label(i + 1))
		case nfa.End:
			g.EmitMove(Id("end"), Id("off"))
			g.EmitMove(Id("id"), Id("tag"))
			g.EmitReturn(Id("end"), Id("id"), Lit(true))
		case nfa.Char:
			g.stmts = append(g.stmts, jen.If(
				jen.Id("off").Op(">=").Len(jen.Id("input")).Op("||").Id("input").Index(jen.Id("off")).Op("!=").Lit(byte(ins.Value)),
			).Block(jen.Goto().Id("tryFallback")))
			g.EmitOp2("+", Id("off"), Id("off"), Lit(1))
			g.EmitIJump(Label(i + 1))
		case nfa.RngEnd:
			cls := &m.Classes[m.Slots[i]]
			g.stmts = append(g.stmts, jen.If(
				jen.Id("off").Op(">=").Len(jen.Id("input")).Op("||").Func().Params().Bool().Block(
					jen.Id("ch").Op(":=").Id("input").Index(jen.Id("off")),
					jen.Return(jen.Op("!").Parens(classExpr(cls))),
				).Call(),
			).Block(jen.Goto().Id("tryFallback")))
			g.EmitOp2("+", Id("off"), Id("off"), Lit(1))
			g.EmitIJump(Label(i + 1))
		case nfa.ID:
			g.stmts = append(g.stmts, jen.If(jen.Id("tag").Op("<").Lit(ins.Value)).Block(
				jen.Id("tag").Op("=").Lit(ins.Value),
			))
			g.EmitIJump(Label(i + 1))
		case nfa.Branch:
			target := int(ins.Value)
			g.stmts = append(g.stmts, jen.Id("stack").Op("=").Append(
				jen.Id("stack"), jen.Index(jen.Lit(2)).Int().Values(jen.Id("off"), jen.Lit(target)),
			))
			g.EmitIJump(Label(i + 1))
		case nfa.Jump:
			g.EmitIJump(Label(int(ins.Value)))
		}
	}

	g.stmts = append(g.stmts, jen.Id("tryFallback").Op(":"))
	g.stmts = append(g.stmts,
		jen.If(jen.Len(jen.Id("stack")).Op("==").Lit(0)).Block(
			jen.Return(jen.Lit(0), jen.Lit(int32(0)), jen.Lit(false)),
		),
		jen.Id("top").Op(":=").Id("stack").Index(jen.Len(jen.Id("stack")).Op("-").Lit(1)),
		jen.Id("stack").Op("=").Id("stack").Index(jen.Empty(), jen.Len(jen.Id("stack")).Op("-").Lit(1)),
		jen.Id("off").Op("=").Id("top").Index(jen.Lit(0)),
	)
	cases := make([]jen.Code, 0, len(m.Program))
	for i := range m.Program {
		cases = append(cases, jen.Case(jen.Lit(i)).Block(jen.Goto().Id(labelName(Label(i)))))
	}
	g.stmts = append(g.stmts, jen.Switch(jen.Id("top").Index(jen.Lit(1))).Block(cases...))

	at := jen.Func().Id(funcName+"At").Params(
		jen.Id("input").Index().Byte(),
		jen.Id("start").Int(),
	).Params(jen.Id("end").Int(), jen.Id("id").Int32(), jen.Id("ok").Bool()).Block(
		append([]jen.Code{
			jen.Id("off").Op(":=").Id("start"),
			jen.Id("tag").Op(":=").Int32().Call(jen.Lit(0)),
			jen.Id("stack").Op(":=").Index().Index(jen.Lit(2)).Int().Values(),
			jen.Line(),
		}, g.stmts...)...,
	)

	scan := jen.Func().Id(funcName).Params(jen.Id("input").Index().Byte()).Params(
		jen.Id("begin").Int(), jen.Id("end").Int(), jen.Id("id").Int32(),
	).Block(
		jen.For(jen.Id("start").Op(":=").Lit(0), jen.Id("start").Op("<=").Len(jen.Id("input")), jen.Id("start").Op("++")).Block(
			jen.List(jen.Id("e"), jen.Id("tag"), jen.Id("ok")).Op(":=").Id(funcName+"At").Call(jen.Id("input"), jen.Id("start")),
			jen.If(jen.Id("ok")).Block(
				jen.Return(jen.Id("start"), jen.Id("e"), jen.Id("tag")),
			),
		),
		jen.Return(jen.Lit(-1), jen.Lit(0), jen.Lit(int32(0))),
	)

	f := jen.NewFile("generated")
	f.HeaderComment(fmt.Sprintf("Code generated from pattern %q by codegen.Generate. DO NOT EDIT.", m.Pattern))
	f.Add(at)
	f.Line()
	f.Add(scan)

	var buf strings.Builder
	if err := f.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
