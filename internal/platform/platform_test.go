package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitProgram(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		line    string
		program string
		rest    string
	}{
		{line: "telnet localhost 6000", program: "telnet", rest: " localhost 6000"},
		{line: `  "C:\Program Files\Wireshark\wireshark.exe" -k -i -`, program: `C:\Program Files\Wireshark\wireshark.exe`, rest: " -k -i -"},
		{line: "putty", program: "putty"},
		{line: `"unterminated`, program: "unterminated"},
		{line: "   "},
	}

	for _, tc := range testcases {
		program, rest := splitProgram(tc.line)
		assert.Equal(t, tc.program, program, tc.line)
		assert.Equal(t, tc.rest, rest, tc.line)
	}
}

func TestRelocateProgram(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `C:\GNS3\tail.exe -f -c +0b "x.pcap"`,
		relocateProgram(`tail.exe -f -c +0b "x.pcap"`, "tail.exe", `C:\GNS3\tail.exe`))
	assert.Equal(t, `"C:\Program Files\GNS3\tail.exe" -f x`,
		relocateProgram(`TAIL.EXE -f x`, "tail.exe", `C:\Program Files\GNS3\tail.exe`))
	assert.Equal(t, `other.exe tail.exe`,
		relocateProgram(`other.exe tail.exe`, "tail.exe", `C:\GNS3\tail.exe`))
}

func TestMergeEnv(t *testing.T) {
	t.Parallel()

	env := mergeEnv([]string{"PATH=/bin", "A=1"}, map[string]string{"A": "2", "B": "3"})
	assert.ElementsMatch(t, []string{"PATH=/bin", "A=2", "B=3"}, env)
	assert.True(t, hasEnv(env, "B"))
	assert.False(t, hasEnv(env, "C"))

	base := []string{"X=1"}
	assert.Equal(t, base, mergeEnv(base, nil))
}
