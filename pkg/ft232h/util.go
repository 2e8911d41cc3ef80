package ft232h

import (
	"fmt"
)

func hex16(v uint16) string {
	return fmt.Sprintf("%04x", v)
}

func (ft *FT232H) vidPid() (vid string, pid string) {
	return hex16(uint16(ft.VID())), hex16(uint16(ft.PID()))
}
