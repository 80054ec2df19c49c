package desktop

import (
	"strconv"
	"strings"
)

// parseNetstatPID scans `netstat -ano` output for a listener on the given port
// and returns its PID, or -1 when the port is free.
func parseNetstatPID(output string, port int) int {
	want := strconv.Itoa(port)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		localAddr := fields[1]
		pidStr := fields[len(fields)-1]

		lastColonIdx := strings.LastIndex(localAddr, ":")
		if lastColonIdx == -1 {
			continue
		}
		if localAddr[lastColonIdx+1:] != want {
			continue
		}

		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			continue
		}
		return pid
	}
	return -1
}
