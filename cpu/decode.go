package cpu

// Decode identifies the template of a machine word, and returns an
// instance holding the word's field values.
//
// Templates are tested in catalog order, and the first whose fixed fields
// all match the word is selected.
func (cat *Catalog) Decode(word uint16) (inst *Instruction, err error) {
	for n := range cat.protos {
		proto := &cat.protos[n]
		if !proto.Match(word) {
			continue
		}

		inst = proto.Clone()
		inst.extract(word)
		return
	}

	err = ErrIllegalOpcode(word)
	return
}
