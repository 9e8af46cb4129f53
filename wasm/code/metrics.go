package code

// Metrics summarizes the shape of an expression.
type Metrics struct {
	MaxNesting       int  // The maximum block nesting, counting the implicit outer block.
	LabelCount       int  // The number of labels introduced by block, loop and if.
	InstructionCount int  // The number of instructions, including the final end.
	HasLoops         bool // True if the expression contains a loop.
}

// Metrics computes the metrics of e.
func (e Expr) Metrics() Metrics {
	m := Metrics{InstructionCount: len(e)}

	depth := 1
	if len(e) > 0 {
		m.MaxNesting = 1
	}
	for i := range e {
		switch e[i].Opcode {
		case OpLoop:
			m.HasLoops = true
			fallthrough
		case OpBlock, OpIf:
			m.LabelCount++
			depth++
			if depth > m.MaxNesting {
				m.MaxNesting = depth
			}
		case OpEnd:
			depth--
		}
	}
	return m
}
