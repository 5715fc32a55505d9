package codespace

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// CheckGH verifies that gh CLI is available and authenticated
func CheckGH() error {
	if _, err := exec.LookPath("gh"); err != nil {
		return ErrGHNotFound
	}

	c := exec.Command("gh", "auth", "status")
	var stderr bytes.Buffer
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		// gh auth status exits non-zero when not authenticated
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "not logged") || strings.Contains(msg, "no accounts") {
			return ErrGHNotAuthenticated
		}
		if msg != "" {
			return fmt.Errorf("gh auth check failed: %s", msg)
		}
		return ErrGHNotAuthenticated
	}
	return nil
}
