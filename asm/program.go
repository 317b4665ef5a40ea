package asm

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ezrec/lc3/cpu"
)

// Line is an assembled line of source.
type Line struct {
	LineNo  int              // Source line number, or 0 if loaded from an object.
	Address uint16           // Address of the first word.
	Text    string           // Source text.
	Label   string           // Label defined on the line.
	Words   []uint16         // Words emitted.
	Inst    *cpu.Instruction // Instruction encoded, or nil for data.
}

// Program is an assembled program image.
type Program struct {
	Filename string
	Origin   uint16
	Lines    []Line
	Symbols  map[string]uint16
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the line that emitted the word at an address.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, line := range prog.Lines {
		if addr >= line.Address && int(addr) < int(line.Address)+len(line.Words) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(addr - line.Address),
			}
			break
		}
	}

	return
}

// Codes iterates over the address and value of every word.
func (prog *Program) Codes() iter.Seq2[uint16, uint16] {
	return func(yield func(addr uint16, word uint16) bool) {
		for _, line := range prog.Lines {
			for n, word := range line.Words {
				if !yield(line.Address+uint16(n), word) {
					return
				}
			}
		}
	}
}

// Size returns the number of words in the image.
func (prog *Program) Size() (size int) {
	for _, line := range prog.Lines {
		size += len(line.Words)
	}
	return
}

// Binary returns the object image: the origin, followed by the words.
func (prog *Program) Binary() (bins []uint16) {
	bins = append(bins, prog.Origin)
	for _, word := range prog.Codes() {
		bins = append(bins, word)
	}

	return
}

// WriteObject writes the object image, big-endian.
func (prog *Program) WriteObject(w io.Writer) (err error) {
	err = binary.Write(w, binary.BigEndian, prog.Binary())
	return
}

// ReadObject reads an object image. Each word is disassembled into a line.
func ReadObject(r io.Reader) (prog *Program, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	if len(data) == 0 {
		err = ErrObjectEmpty
		return
	}

	if len(data)%2 != 0 || len(data) < 4 {
		err = ErrObjectTruncated
		return
	}

	words := make([]uint16, len(data)/2)
	for n := range words {
		words[n] = binary.BigEndian.Uint16(data[n*2:])
	}

	prog = &Program{
		Origin:  words[0],
		Symbols: map[string]uint16{},
	}

	for n, word := range words[1:] {
		line := Line{
			Address: prog.Origin + uint16(n),
			Words:   []uint16{word},
		}
		inst, derr := cpu.Default.Decode(word)
		if derr == nil {
			line.Inst = inst
			line.Text = inst.String()
		} else {
			line.Text = fmt.Sprintf(".FILL x%04X", word)
		}
		prog.Lines = append(prog.Lines, line)
	}

	return
}

// Listing writes a table of addresses, words and source lines.
func (prog *Program) Listing(w io.Writer) (err error) {
	tw := table.NewWriter()
	if len(prog.Filename) != 0 {
		tw.SetTitle(prog.Filename)
	}
	tw.AppendHeader(table.Row{"Addr", "Word", "Line", "Source"})

	for _, line := range prog.Lines {
		lineno := ""
		if line.LineNo > 0 {
			lineno = fmt.Sprint(line.LineNo)
		}
		if len(line.Words) == 0 {
			tw.AppendRow(table.Row{"", "", lineno, line.Text})
			continue
		}
		for n, word := range line.Words {
			addr := fmt.Sprintf("x%04X", line.Address+uint16(n))
			if n == 0 {
				tw.AppendRow(table.Row{addr, fmt.Sprintf("x%04X", word), lineno, line.Text})
			} else {
				tw.AppendRow(table.Row{addr, fmt.Sprintf("x%04X", word), "", ""})
			}
		}
	}

	_, err = fmt.Fprintln(w, tw.Render())
	return
}
