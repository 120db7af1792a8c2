package portapps

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// runtimeLibName is the library the vcrun2019/win64 combination is known to
// corrupt by dropping the 32-bit build into system32.
const runtimeLibName = "msvcp140.dll"

const (
	machineI386  = 0x014c
	machineAMD64 = 0x8664
)

// peMachine reads just enough of a PE file to report its machine word:
// the MZ magic, the e_lfanew offset at 0x3c, the PE\0\0 signature and the
// COFF machine field right after it.
func peMachine(path string) (uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var dosHeader [0x40]byte
	if _, err := io.ReadFull(f, dosHeader[:]); err != nil {
		return 0, fmt.Errorf("short DOS header: %w", err)
	}
	if dosHeader[0] != 'M' || dosHeader[1] != 'Z' {
		return 0, fmt.Errorf("missing MZ magic")
	}

	peOffset := binary.LittleEndian.Uint32(dosHeader[0x3c:])
	if _, err := f.Seek(int64(peOffset), io.SeekStart); err != nil {
		return 0, err
	}

	var peHeader [6]byte
	if _, err := io.ReadFull(f, peHeader[:]); err != nil {
		return 0, fmt.Errorf("short PE header: %w", err)
	}
	if peHeader[0] != 'P' || peHeader[1] != 'E' || peHeader[2] != 0 || peHeader[3] != 0 {
		return 0, fmt.Errorf("missing PE signature")
	}
	return binary.LittleEndian.Uint16(peHeader[4:]), nil
}

// is64BitPE reports whether path is a 64-bit x86 Windows binary.
// A missing or unreadable file is simply not 64-bit.
func is64BitPE(path string) bool {
	machine, err := peMachine(path)
	if err != nil {
		debugf("pe check %s: %v\n", path, err)
		return false
	}
	return machine == machineAMD64
}
