// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/lc3/cpu"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// labelPattern is the syntax of a label.
var labelPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Assembler is a two pass assembler for the LC-3 instruction set.
type Assembler struct {
	Verbose  bool         // If set, verbosely logs the assembler actions.
	FailFast bool         // If set, stop at the first error.
	Catalog  *cpu.Catalog // Instruction set; if nil, cpu.Default.
	Sink     Sink         // Diagnostic receiver; may be nil.

	predefine map[string]string // Predefines
	Label     map[string]uint16 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	filename string
	errs     []error
}

// statement is a preprocessed line of source.
type statement struct {
	lineno  int
	line    string
	label   string
	op      cpu.Token
	args    []cpu.Token
	address uint16
	failed  bool
	ignored bool
}

// directive returns the lower case directive name, or "".
func (st *statement) directive() string {
	if strings.HasPrefix(st.op.Text, ".") {
		return strings.ToLower(st.op.Text)
	}
	return ""
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// catalog returns the instruction set in use.
func (asm *Assembler) catalog() *cpu.Catalog {
	if asm.Catalog == nil {
		return cpu.Default
	}
	return asm.Catalog
}

// report sends a diagnostic to the sink.
func (asm *Assembler) report(severity Severity, kind cpu.Kind, lineno int, line string, message string) {
	if asm.Sink == nil {
		return
	}
	asm.Sink.Report(Diagnostic{
		Severity: severity,
		Kind:     kind,
		Filename: asm.filename,
		LineNo:   lineno,
		Line:     line,
		Message:  message,
	})
}

// fail records an error for a line.
func (asm *Assembler) fail(lineno int, line string, err error) {
	asm.errs = append(asm.errs, ErrSyntax{Filename: asm.filename, LineNo: lineno, Line: line, Err: err})
	asm.report(SEVERITY_ERROR, cpu.KindOf(err), lineno, line, err.Error())
}

// stop returns true if assembly should be abandoned.
func (asm *Assembler) stop() bool {
	return asm.FailFast && len(asm.errs) > 0
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var num int
		num, err = cpu.ParseNumber(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(num)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// expand does character literal and $() evaluations on a token.
func (asm *Assembler) expand(token *cpu.Token) (err error) {
	text := token.Text

	switch {
	case len(text) >= 3 && text[0] == '\'' && text[len(text)-1] == '\'':
		var str string
		str, err = unquote(text)
		if err != nil || len(str) != 1 {
			err = ErrParseCharacter(text)
			return
		}
		token.Text = fmt.Sprintf("#%d", str[0])
	case strings.HasPrefix(text, "$(") && strings.HasSuffix(text, ")"):
		var value int
		value, err = asm.parenEval(text[2 : len(text)-1])
		if err != nil {
			return
		}
		token.Text = fmt.Sprintf("#%d", value)
	}

	return
}

// isLabel returns true if the word may be used as a label.
func (asm *Assembler) isLabel(word string) bool {
	if !labelPattern.MatchString(word) {
		return false
	}
	if asm.catalog().IsMnemonic(word) {
		return false
	}
	_, is_reg := asm.catalog().Registers.Lookup(word)
	return !is_reg
}

// isOperation returns true if the word is a mnemonic or a directive.
func (asm *Assembler) isOperation(word string) bool {
	return strings.HasPrefix(word, ".") || asm.catalog().IsMnemonic(word)
}

// parseLine parses a single line into a statement.
// Empty lines and equates yield a nil statement.
func (asm *Assembler) parseLine(text string, lineno int) (st *statement, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	tokens, err := Lex(text, lineno)
	if err != nil {
		return
	}

	if len(tokens) == 0 {
		return
	}

	for n := range tokens {
		err = asm.expand(&tokens[n])
		if err != nil {
			return
		}
	}

	// .equ CONST VALUE
	if strings.EqualFold(tokens[0].Text, ".equ") {
		if len(tokens) != 3 {
			err = ErrEquateSyntax
			return
		}
		name := tokens[1].Text
		_, ok := asm.Equate[name]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[name] = tokens[2].Text
		return
	}

	for n := range tokens {
		equate, ok := asm.Equate[tokens[n].Text]
		if ok {
			tokens[n].Text = equate
		}
	}

	st = &statement{
		lineno: lineno,
		line:   strings.TrimSpace(text),
	}

	first := tokens[0].Text
	switch {
	case strings.HasSuffix(first, ":"):
		st.label = strings.TrimSuffix(first, ":")
		tokens = tokens[1:]
	case !asm.isOperation(first) && (len(tokens) == 1 || asm.isOperation(tokens[1].Text)):
		st.label = first
		tokens = tokens[1:]
	}

	if len(st.label) != 0 && !asm.isLabel(st.label) {
		st = nil
		err = ErrLabelInvalid
		return
	}

	if len(tokens) > 0 {
		st.op = tokens[0]
		st.args = tokens[1:]
	}

	return
}

// sizeOf returns the number of words a statement emits.
func (asm *Assembler) sizeOf(st *statement) (size int, err error) {
	switch st.directive() {
	case "":
		if len(st.op.Text) != 0 {
			size = 1
		}
	case ".orig", ".end":
	case ".fill":
		if len(st.args) != 1 {
			err = ErrDirectiveArgs
			return
		}
		size = 1
	case ".blkw":
		if len(st.args) < 1 || len(st.args) > 2 {
			err = ErrDirectiveArgs
			return
		}
		size, err = cpu.ParseNumber(st.args[0].Text)
		if err != nil || size < 1 || size > 0x10000 {
			size = 0
			err = ErrBlockSize
			return
		}
	case ".stringz":
		if len(st.args) != 1 || !strings.HasPrefix(st.args[0].Text, "\"") {
			err = ErrStringSyntax
			return
		}
		var str string
		str, err = unquote(st.args[0].Text)
		if err != nil {
			return
		}
		size = len(str) + 1
	default:
		err = ErrDirectiveInvalid
	}

	return
}

// value evaluates a data operand: a label or a number.
func (asm *Assembler) value(token cpu.Token) (word uint16, err error) {
	addr, ok := asm.Label[token.Text]
	if ok {
		word = addr
		return
	}

	value, err := cpu.ParseNumber(token.Text)
	if err != nil {
		if labelPattern.MatchString(token.Text) {
			err = cpu.ErrLabelUndefined(token.Text)
		}
		return
	}

	if value < -0x8000 || value > 0xffff {
		err = cpu.ErrImmediateRange{Text: token.Text, Min: -0x8000, Max: 0xffff}
		return
	}

	word = uint16(value)
	return
}

// encode emits the words of a statement.
func (asm *Assembler) encode(st *statement) (words []uint16, inst *cpu.Instruction, err error) {
	switch st.directive() {
	case "":
		if len(st.op.Text) == 0 {
			return
		}
		env := cpu.Env{Address: st.address, Labels: asm.Label}
		inst, err = asm.catalog().Encode(st.op, st.args, env)
		if err != nil {
			return
		}
		words = []uint16{inst.Word()}
	case ".fill":
		var word uint16
		word, err = asm.value(st.args[0])
		if err != nil {
			return
		}
		words = []uint16{word}
	case ".blkw":
		count, _ := cpu.ParseNumber(st.args[0].Text)
		var fill uint16
		if len(st.args) > 1 {
			fill, err = asm.value(st.args[1])
			if err != nil {
				return
			}
		}
		words = make([]uint16, count)
		for n := range words {
			words[n] = fill
		}
	case ".stringz":
		str, _ := unquote(st.args[0].Text)
		for n := range len(str) {
			words = append(words, uint16(str[n]))
		}
		words = append(words, 0)
	}

	return
}

// Parse assembles an input stream into a Program.
//
// Every line that fails reports a diagnostic, and assembly continues
// unless FailFast is set. The returned error joins an ErrSyntax for each
// failing line.
func (asm *Assembler) Parse(filename string, input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	asm.filename = filename
	asm.errs = nil
	asm.Label = make(map[string]uint16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	var stmts []*statement
	var lineno int

	for scanner.Scan() && !asm.stop() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		st, perr := asm.parseLine(text, lineno)
		if perr != nil {
			asm.fail(lineno, strings.TrimSpace(text), perr)
			continue
		}
		if st != nil {
			stmts = append(stmts, st)
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Pass 1: assign addresses and define labels.
	origin := -1
	address := 0
	ended := false
	for _, st := range stmts {
		if asm.stop() {
			break
		}

		if ended {
			st.ignored = true
			continue
		}

		directive := st.directive()
		switch directive {
		case ".orig":
			if origin >= 0 {
				st.failed = true
				asm.fail(st.lineno, st.line, ErrOrigDuplicate)
				continue
			}
			if len(st.args) != 1 {
				st.failed = true
				asm.fail(st.lineno, st.line, ErrDirectiveArgs)
				continue
			}
			value, perr := cpu.ParseNumber(st.args[0].Text)
			if perr == nil && (value < 0 || value > 0xffff) {
				perr = cpu.ErrImmediateRange{Text: st.args[0].Text, Min: 0, Max: 0xffff}
			}
			if perr != nil {
				st.failed = true
				asm.fail(st.lineno, st.line, perr)
				continue
			}
			origin = value
			address = value
		case ".end":
			ended = true
		}

		if origin < 0 && (len(st.op.Text) != 0 || len(st.label) != 0) && directive != ".end" {
			asm.fail(st.lineno, st.line, ErrOrigMissing)
			origin = 0x3000
			address = origin
		}

		st.address = uint16(address)

		if len(st.label) != 0 {
			_, ok := asm.Label[st.label]
			if ok {
				st.failed = true
				asm.fail(st.lineno, st.line, ErrLabelDuplicate(st.label))
				continue
			}
			asm.Label[st.label] = st.address
		}

		size, serr := asm.sizeOf(st)
		if serr != nil {
			st.failed = true
			asm.fail(st.lineno, st.line, serr)
			continue
		}

		address += size
		if address > 0x10000 {
			st.failed = true
			asm.fail(st.lineno, st.line, ErrAddressOverflow)
			break
		}
	}

	if origin < 0 && !asm.stop() {
		asm.fail(lineno, "", ErrOrigMissing)
	}

	if !ended && !asm.stop() {
		asm.report(SEVERITY_WARNING, cpu.KIND_NONE, lineno, "", f("missing .end"))
	}

	// Pass 2: encode.
	prog = &Program{
		Filename: filename,
		Origin:   uint16(max(origin, 0)),
	}

	for _, st := range stmts {
		if asm.stop() {
			break
		}

		if st.ignored {
			asm.report(SEVERITY_WARNING, cpu.KIND_NONE, st.lineno, st.line, f("text after .end ignored"))
			continue
		}

		if st.failed {
			continue
		}

		words, inst, eerr := asm.encode(st)
		if eerr != nil {
			asm.fail(st.lineno, st.line, eerr)
			continue
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo:  st.lineno,
			Address: st.address,
			Text:    st.line,
			Label:   st.label,
			Words:   words,
			Inst:    inst,
		})
	}

	prog.Symbols = maps.Clone(asm.Label)

	if len(asm.errs) != 0 {
		prog = nil
		err = errors.Join(asm.errs...)
		return
	}

	return
}
