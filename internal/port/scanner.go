package port

import (
	"fmt"
	"net"
	"strconv"

	"github.com/shinji-kodama/vcr-manage/internal/model"
)

// suggestWindow is how far above a busy port Require looks for a free
// alternative to suggest.
const suggestWindow = 100

// Scanner checks host TCP ports by binding them.
//
// Binding asks the OS directly, which is more reliable than parsing
// /proc/net or shelling out to lsof or ss, and needs no privileges.
type Scanner struct {
	// Host is the bind address. Empty means all interfaces, which is
	// where docker publishes ports by default.
	Host string
}

// NewScanner returns a Scanner bound to all interfaces.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsPortAvailable reports whether port can be bound for TCP. The probe
// listener is closed before returning.
func (s *Scanner) IsPortAvailable(port int) bool {
	if port < 1 || port > 65535 {
		return false
	}
	ln, err := net.Listen("tcp", net.JoinHostPort(s.Host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

// FindAvailablePort returns the first free port in [start, end].
func (s *Scanner) FindAvailablePort(start, end int) (int, error) {
	for p := start; p <= end; p++ {
		if s.IsPortAvailable(p) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("no available port found in range %d-%d", start, end)
}

// Require fails with ExitPortUnavailable when port is taken. The error
// message names the variable that sets the port and, when one exists,
// a nearby free port to use instead.
func (s *Scanner) Require(port int, variable string) error {
	if s.IsPortAvailable(port) {
		return nil
	}

	msg := fmt.Sprintf("port %d is already in use; set %s to a free port", port, variable)
	end := port + suggestWindow
	if end > 65535 {
		end = 65535
	}
	if free, err := s.FindAvailablePort(port+1, end); err == nil {
		msg = fmt.Sprintf("port %d is already in use; try %s=%d", port, variable, free)
	}
	return model.NewCLIError(model.ExitPortUnavailable, msg)
}
