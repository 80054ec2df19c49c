//go:build windows

package desktop

import (
	"bytes"
	"fmt"
	"log"
	"os/exec"
	"strconv"
)

// CheckPortOccupied 检查端口是否被占用，返回占用进程的 PID；未占用返回 -1
func CheckPortOccupied(port int) (int, error) {
	cmd := exec.Command("netstat", "-ano")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return -1, fmt.Errorf("netstat failed: %w", err)
	}
	return parseNetstatPID(out.String(), port), nil
}

// TerminateProcessByPort kills whatever is still bound to the backend port,
// typically a backend left behind by a crashed previous run.
func TerminateProcessByPort(port int) error {
	pid, err := CheckPortOccupied(port)
	if err != nil {
		return err
	}
	if pid == -1 {
		return nil
	}

	log.Printf("[PortManager] Port %d held by PID %d, terminating...", port, pid)

	cmd := exec.Command("taskkill", "/F", "/PID", strconv.Itoa(pid))
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("taskkill PID %d: %w, output: %s", pid, err, out.String())
	}

	log.Printf("[PortManager] Terminated PID %d (port %d)", pid, port)
	return nil
}
