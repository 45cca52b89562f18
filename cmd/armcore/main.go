// Command armcore is the host shell for the assembler and core: it
// assembles `.s` sources, disassembles byte images, and runs or
// single-steps a program the way spec.md pushes out to "the host"
// (§1 Scope, §5 Concurrency & Resource Model). The core itself stays
// host-agnostic; this binary is just one possible caller of it.
package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gvm/asm"
	"gvm/cpu"
)

func main() {
	root := &cobra.Command{
		Use:   "armcore",
		Short: "Assembler and five-stage core for a pedagogical ARM-like ISA",
	}
	root.AddCommand(newAssembleCmd(), newRunCmd(), newDisasmCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAssembleCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "assemble <file.s>",
		Short: "Assemble a source file into a big-endian byte image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			img, err := asm.Assemble(string(src))
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], ".s") + ".bin"
			}
			return os.WriteFile(output, img, 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.bin)")
	return cmd
}

func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <file.bin>",
		Short: "Disassemble a byte image into canonical assembly text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			for off := 0; off+8 <= len(data); off += 8 {
				word := binary.BigEndian.Uint64(data[off : off+8])
				fmt.Printf("%6d: %s\n", off, cpu.Disassemble(word))
			}
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var (
		memSize     int
		intTableCSV string
		debug       bool
		breaksCSV   string
	)
	cmd := &cobra.Command{
		Use:   "run <file.s>",
		Short: "Assemble and run a program to halt, or single-step in debug mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			img, err := asm.Assemble(string(src))
			if err != nil {
				return err
			}

			core := cpu.NewCore(memSize)
			core.LoadMemory(img)

			if intTableCSV != "" {
				table, err := parseWordList(intTableCSV)
				if err != nil {
					return err
				}
				core.SetInterruptTable(table)
			}

			if !debug {
				return runToHalt(core)
			}

			breaks, err := parseWordList(breaksCSV)
			if err != nil {
				return err
			}
			return runDebugMode(core, breaks)
		},
	}
	cmd.Flags().IntVar(&memSize, "mem", cpu.DefaultMemorySize, "memory size in bytes")
	cmd.Flags().StringVar(&intTableCSV, "int-table", "", "comma-separated interrupt handler addresses")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enter single-step debug mode")
	cmd.Flags().StringVar(&breaksCSV, "break", "", "comma-separated breakpoint addresses (debug mode)")
	return cmd
}

func parseWordList(csv string) ([]uint64, error) {
	if csv == "" {
		return nil, nil
	}
	var out []uint64
	for _, tok := range strings.Split(csv, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(tok), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad address %q: %w", tok, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func runToHalt(core *cpu.Core) error {
	for !core.Halted() {
		if err := core.Step(); err != nil {
			return err
		}
	}
	printState(core)
	return nil
}

// runDebugMode is grounded on the teacher VM's RunProgramDebugMode
// (vm/run.go): the same n/next, r/run, b/break <addr> command set,
// adapted from line-indexed breakpoints to byte-addressed ones since
// this core's pc advances by 8, not by 1.
func runDebugMode(core *cpu.Core, breakpoints []uint64) error {
	fmt.Printf("Commands:\n\tn or next: execute next instruction\n\tr or run: run program\n\tb or break <addr>: break on address (or remove break)\n\n")

	breakAt := make(map[uint64]struct{}, len(breakpoints))
	for _, b := range breakpoints {
		breakAt[b] = struct{}{}
	}

	printState(core)

	reader := bufio.NewReader(os.Stdin)
	waitForInput := true
	const noBreak = ^uint64(0)
	lastBreak := noBreak
	for !core.Halted() {
		line := ""
		if waitForInput {
			fmt.Print("\n-> ")
			line, _ = reader.ReadString('\n')
			line = strings.ToLower(strings.TrimSpace(line))
		} else {
			pc := core.GetReg(cpu.RegPC)
			if _, ok := breakAt[pc]; ok && lastBreak != pc {
				fmt.Println("breakpoint")
				printState(core)
				waitForInput = true
				lastBreak = pc
				continue
			}
		}

		switch {
		case !waitForInput || line == "n" || line == "next":
			lastBreak = noBreak
			if err := core.Step(); err != nil {
				return err
			}
			if waitForInput {
				printState(core)
			}
		case line == "r" || line == "run":
			waitForInput = false
		case strings.HasPrefix(line, "b"):
			arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(line, "break"), "b"))
			addr, err := strconv.ParseUint(arg, 0, 64)
			if err != nil {
				fmt.Println("unknown address:", err)
				continue
			}
			if _, ok := breakAt[addr]; ok {
				delete(breakAt, addr)
			} else {
				breakAt[addr] = struct{}{}
			}
		}
	}
	printState(core)
	return nil
}

func printState(core *cpu.Core) {
	regs := core.DumpRegisters()
	fmt.Println("->\t\tregisters>", regs)
	fmt.Printf("->\t\tcpsr (nzcv)> %04b\n", core.DumpCPSR())
	fmt.Println("->\t\tquery>", core.GetQuery())
}
