//go:build !linux && !windows

package platform

func gnomeTerminalEnv() map[string]string {
	return nil
}
