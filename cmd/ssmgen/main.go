// Command ssmgen is a thin external collaborator around the in-scope
// emit and codec packages: it has no correctness contract of its own
// (spec.md §1's "external collaborators" note) beyond the byte-identical
// artifact output emit.WriteAll already guarantees.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ssm/codec"
	"ssm/emit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ssmgen",
		Short: "Table generation and disassembly tooling for the SSM opcode table",
	}

	var outDir string
	tablesCmd := &cobra.Command{
		Use:   "tables",
		Short: "Generate ssm_ops.h, sw.c, and jmptbl.c from the opcode table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := emit.WriteAll(outDir); err != nil {
				return err
			}
			fmt.Printf("wrote ssm_ops.h, sw.c, jmptbl.c to %s\n", outDir)
			return nil
		},
	}
	tablesCmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory for generated artifacts")

	disasmCmd := &cobra.Command{
		Use:   "disasm [hex-bytes]",
		Short: "Decode a hex-encoded in-memory instruction stream against the opcode table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("invalid hex input: %w", err)
			}
			return disassemble(data)
		},
	}

	rootCmd.AddCommand(tablesCmd, disasmCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// disassemble decodes a single instruction stream, printing each
// instruction's mnemonic and decoded arguments in order. It stops at the
// first decode failure, reporting the byte offset it occurred at.
func disassemble(data []byte) error {
	offset := 0
	for offset < len(data) {
		opByte := data[offset]
		if int(opByte) >= len(codec.Opcodes) {
			return fmt.Errorf("offset %d: unknown opcode byte 0x%02x", offset, opByte)
		}
		op := codec.Op(opByte)
		cursor := offset + 1

		var parts []string
		for _, argType := range op.Args() {
			consumed, val, ok := codec.Unpack(argType, data[cursor:])
			if !ok {
				return fmt.Errorf("offset %d: failed to decode %s argument for %s", cursor, argType.Kind, op)
			}
			parts = append(parts, formatArgVal(val))
			cursor += consumed
		}

		fmt.Printf("%04d  %s", offset, op)
		for _, p := range parts {
			fmt.Printf(" %s", p)
		}
		fmt.Println()

		offset = cursor
	}
	return nil
}

func formatArgVal(v codec.ArgVal) string {
	switch v.Kind {
	case codec.KindInt:
		return fmt.Sprintf("%d", v.IntVal)
	case codec.KindUint:
		return fmt.Sprintf("%d", v.UintVal)
	case codec.KindFloat:
		return fmt.Sprintf("%g", v.FloatVal)
	case codec.KindBytes:
		return hex.EncodeToString(v.BytesVal)
	case codec.KindMagic:
		if name, ok := codec.MagicName(int(v.MagicVal)); ok {
			return name
		}
		return fmt.Sprintf("magic#%d", v.MagicVal)
	case codec.KindOffset:
		return fmt.Sprintf("+%d", v.OffsetVal)
	case codec.KindJmptbl:
		return fmt.Sprintf("%v", v.JmptblVal)
	default:
		return "?"
	}
}
