// Package emit generates the C-side build artifacts the SSM opcode table
// describes: the opcode ID header, the dispatch-switch body, and the
// computed-goto label table (spec.md 4.7, 6.3). Generation is a pure
// function of codec.Opcodes; two runs over the same table produce
// byte-identical output.
package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"ssm/codec"
	"ssm/mem"
)

// Header generates ssm_ops.h: one #define per opcode, in table order.
func Header() string {
	var b strings.Builder
	b.WriteString("// Generated by ssmgen\n")
	b.WriteString("#include <stdint.h>\n")
	for idx, op := range codec.Opcodes {
		fmt.Fprintf(&b, "#define SSM_OP_%s ((ssmOp)%d);\n", op.Name, idx)
	}
	return b.String()
}

// Switch generates sw.c: a dispatch-switch block per opcode, binding each
// fixed-size argument to a typed local and ending with NEXT(n). Bytes and
// Jmptbl arguments aren't fixed-size and are elided here; the VM's
// dispatch code handles them directly (spec.md 4.7).
func Switch() string {
	var b strings.Builder
	b.WriteString("// Generated by ssmgen\n")
	for _, op := range codec.Opcodes {
		read := 1
		fmt.Fprintf(&b, "OP(%s): {\n", op.Name)
		for idx, arg := range op.Args {
			switch arg.Kind {
			case codec.KindUint, codec.KindMagic:
				bits := arg.Size * 8
				fmt.Fprintf(&b, "  uint%d_t a%d = SSM_READ_U%d(ip + %d);\n", bits, idx, bits, read)
				read += int(arg.Size)
			case codec.KindInt, codec.KindOffset:
				bits := arg.Size * 8
				fmt.Fprintf(&b, "  int%d_t a%d = SSM_READ_I%d(ip + %d);\n", bits, idx, bits, read)
				read += int(arg.Size)
			case codec.KindFloat:
				fmt.Fprintf(&b, "  float a%d = SSM_READ_F32(ip + %d);\n", idx, read)
				read += 4
			default:
			}
		}
		fmt.Fprintf(&b, "} NEXT(%d);\n", read)
	}
	return b.String()
}

// Jmptbl generates jmptbl.c: one computed-goto label per opcode, in order.
func Jmptbl() string {
	var b strings.Builder
	b.WriteString("// Generated by ssmgen\n")
	for _, op := range codec.Opcodes {
		fmt.Fprintf(&b, "&&L_op_%s,\n", op.Name)
	}
	return b.String()
}

// artifact pairs a generated file's name with its content, in write order.
type artifact struct {
	name    string
	content string
}

// WriteAll writes ssm_ops.h, sw.c, and jmptbl.c into dir.
func WriteAll(dir string) error {
	artifacts := []artifact{
		{"ssm_ops.h", Header()},
		{"sw.c", Switch()},
		{"jmptbl.c", Jmptbl()},
	}
	for _, a := range artifacts {
		path := filepath.Join(dir, a.name)
		if err := os.WriteFile(path, []byte(a.content), 0o644); err != nil {
			return fmt.Errorf("emit: failed to write %s: %w", a.name, err)
		}
		mem.Logger().Info("wrote artifact", zap.String("path", path))
	}
	return nil
}
