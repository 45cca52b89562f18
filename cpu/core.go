package cpu

// Core is the in-order five-stage pipeline driver: fetch, decode,
// read-regs, execute, mem, writeback, plus the interrupt-check prologue
// and halt guard from §4.3. It owns its register file and memory
// entirely; the host only ever observes copies (dump_registers,
// dump_memory) or scalar reads (get_reg, get_query).
type Core struct {
	Mem  *Memory
	Regs RegisterFile

	intTable []uint64

	intPending bool
	intNum     uint64
	intData    uint64

	// curIntData is the data word belonging to whichever interrupt is
	// currently being serviced — what `mvi` loads into its destination
	// register.
	curIntData uint64

	lastOp Op
	query  uint64
}

// NewCore creates a fresh core: pc=0, sp=memory size, flags clear, per the
// new_core host entry point (§6).
func NewCore(memSize int) *Core {
	c := &Core{Mem: NewMemory(memSize)}
	c.Regs.SetSP(uint64(memSize))
	return c
}

// LoadMemory copies bytes into low memory, clearing the remainder.
func (c *Core) LoadMemory(data []byte) {
	c.Mem.Load(data)
}

// SetInterruptTable installs the ordered list of handler addresses.
func (c *Core) SetInterruptTable(words []uint64) {
	c.intTable = append([]uint64(nil), words...)
}

// Interrupt latches a pending interrupt for the next step. Injection is
// non-preemptive: it only takes effect at the following step's prologue,
// and a second injection before the first is serviced overwrites it
// (single-slot latch, per §9 Design Notes).
func (c *Core) Interrupt(num, data uint64) {
	c.latch(num, data)
}

func (c *Core) latch(num, data uint64) {
	c.intPending = true
	c.intNum = num
	c.intData = data
}

// Halted reports whether the last decoded opcode was hlt.
func (c *Core) Halted() bool {
	return c.lastOp == Hlt
}

// GetReg reads register i.
func (c *Core) GetReg(i uint8) uint64 { return c.Regs.Get(i) }

// DumpRegisters returns a copy of the register file.
func (c *Core) DumpRegisters() [NumRegisters]uint64 { return c.Regs.Dump() }

// DumpCPSR returns the packed condition flags.
func (c *Core) DumpCPSR() uint8 { return uint8(c.Regs.CPSR()) }

// DumpMemory returns a copy of memory.
func (c *Core) DumpMemory() []byte { return c.Mem.Dump() }

// GetQuery returns the value last published by a qry instruction.
func (c *Core) GetQuery() uint64 { return c.query }

// Step advances the core by one instruction, per the eleven-step sequence
// in §4.3. An out-of-range memory access is undefined per §7; this
// implementation recovers any resulting panic as ErrSegmentationFault
// rather than crashing the host, mirroring the teacher VM's own
// recover-based step guard (exec.go: getDefaultRecoverFuncForVM).
func (c *Core) Step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrSegmentationFault
		}
	}()
	return c.step()
}

func (c *Core) step() error {
	// 1. Halt guard.
	if c.lastOp == Hlt {
		return nil
	}

	// 2. Pending interrupt.
	if c.intPending {
		// §7: a latched interrupt with no installed handler jumps to
		// address 0 rather than faulting (the divide-by-zero case's
		// "handler 0 by convention if host installs one, otherwise
		// execution jumps to address 0").
		target := uint64(0)
		if c.intNum < uint64(len(c.intTable)) {
			target = c.intTable[c.intNum]
		}
		c.Regs.SetLR(c.Regs.PC())
		c.Regs.SetPC(target)
		c.curIntData = c.intData
		c.intPending = false
		return nil
	}

	// 3. Fetch.
	pc := c.Regs.PC()
	word := c.Mem.ReadWord(pc)
	c.Regs.SetPC(pc + 8)

	// 4. Decode.
	ins, err := Decode(word)
	if err != nil {
		return err
	}
	if _, known := opToMnemonic[ins.Op]; !known {
		return ErrUnknownOpcode
	}
	c.lastOp = ins.Op

	writeRegs := true
	switch ins.Op {
	case Cmp, Cmn, Tst, Teq:
		writeRegs = false
	}

	rd := ins.Rd
	switch ins.Op {
	case B, Bl:
		rd = RegPC
		if ins.Op == Bl {
			// lr is set here, unconditionally, before the step-7
			// condition check — see SPEC_FULL.md's open-question note.
			c.Regs.SetLR(c.Regs.PC())
		}
	case Push:
		c.Regs.SetSP(c.Regs.SP() - 8)
	}

	// 5. Early exit.
	if ins.Op == Nop || ins.Op == Hlt {
		return nil
	}

	// 6. Read regs.
	class := ins.Op.Class()
	var outB, outC uint64
	var outMB, outMO, outMS, outD uint64
	if class == ClassMemory {
		outMB = c.Regs.Get(ins.Ra)
		outMO = c.Regs.Get(ins.Rb)
		if ins.I {
			outMS = uint64(ins.C)
		} else {
			outMS = c.Regs.Get(uint8(ins.C) & 0xF)
		}
		outD = c.Regs.Get(ins.Rd)
	} else {
		outB = c.Regs.Get(ins.Rb)
		if ins.I {
			outC = uint64(ins.C)
		} else {
			outC = c.Regs.Get(uint8(ins.C) & 0xF)
		}
	}

	// 7. Condition check.
	ok, err := c.Regs.CPSR().Eval(ins.Cond)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	// 8. Special dispatch.
	if ins.Op == Int {
		c.latch(outB, outC)
		return nil
	}

	// 9. Execute.
	var dataBus uint64
	if class == ClassMemory {
		dataBus = outD
	} else {
		result, flags, trap := Eval(ins.Op, outB, outC)
		if trap {
			c.latch(0, 0)
			return nil
		}
		dataBus = result
		if ins.S {
			c.Regs.SetCPSR(flags.Pack())
		}
		if ins.Op == Mvi {
			dataBus = c.curIntData
		}
		if ins.Op == Qry {
			c.query = dataBus
		}
	}

	// 10. Memory stage.
	if class == ClassMemory {
		addr := EffectiveAddress(outMB, outMO, outMS)
		switch ins.Op {
		case Ldr:
			dataBus = c.Mem.ReadWord(addr)
		case Str:
			c.Mem.WriteWord(addr, dataBus)
		case Push:
			c.Mem.WriteWord(c.Regs.SP(), dataBus)
		case Pop:
			dataBus = c.Mem.ReadWord(c.Regs.SP())
		}
	}

	// 11. Writeback.
	if ins.Op == Pop {
		c.Regs.SetSP(c.Regs.SP() + 8)
	}
	if writeRegs {
		c.Regs.Set(rd, dataBus)
	}
	return nil
}
