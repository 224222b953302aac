package emit

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssm/codec"
)

// spec.md 8 scenario 6: two runs over the same opcode table produce
// byte-identical artifacts.
func TestGenerationIsDeterministic(t *testing.T) {
	assert.Equal(t, Header(), Header())
	assert.Equal(t, Switch(), Switch())
	assert.Equal(t, Jmptbl(), Jmptbl())
}

func TestHeaderContainsOneDefinePerOpcode(t *testing.T) {
	out := Header()
	assert.Contains(t, out, "#include <stdint.h>")
	for idx, op := range codec.Opcodes {
		want := "#define SSM_OP_" + op.Name + " ((ssmOp)" + strconv.Itoa(idx) + ");"
		assert.Contains(t, out, want)
	}
}

func TestJmptblContainsOneLabelPerOpcode(t *testing.T) {
	out := Jmptbl()
	for _, op := range codec.Opcodes {
		assert.Contains(t, out, "&&L_op_"+op.Name+",")
	}
}

func TestSwitchContainsOneBlockPerOpcode(t *testing.T) {
	out := Switch()
	for _, op := range codec.Opcodes {
		assert.Contains(t, out, "OP("+op.Name+"): {")
	}
}

func TestWriteAllProducesThreeFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteAll(dir))

	for _, name := range []string{"ssm_ops.h", "sw.c", "jmptbl.c"} {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}
