//go:build !linux && !darwin && !windows

package sound

const defaultBackend = Bell
