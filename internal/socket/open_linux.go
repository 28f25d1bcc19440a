package socket

import "golang.org/x/sys/unix"

// openDatagram allocates a non-blocking, close-on-exec UDP socket in a
// single syscall.
func openDatagram(family int) (int, error) {
	return unix.Socket(family, unix.SOCK_DGRAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
}
