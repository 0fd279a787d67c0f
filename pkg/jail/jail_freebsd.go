//go:build freebsd

package jail

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// maxJailNameLen matches the kernel's MAXHOSTNAMELEN, the size limit for
// jail names.
const maxJailNameLen = 256

// list walks the jail list the way jls(8) does: ask for the first jail
// with a JID above the last one seen until the kernel says ENOENT.
func list() ([]Jail, error) {
	var jails []Jail
	lastJID := int32(0)
	for {
		jid, name, err := next(lastJID)
		if err == unix.ENOENT {
			return jails, nil
		}
		if err != nil {
			return nil, fmt.Errorf("jail_get: %w", err)
		}
		jails = append(jails, Jail{JID: jid, Name: name})
		lastJID = jid
	}
}

// next fetches the first running jail with a JID greater than lastJID.
// jail_get(2) takes name/value iovec pairs: "lastjid" is an input parameter,
// "name" an output buffer the kernel fills.
func next(lastJID int32) (int32, string, error) {
	lastJIDKey, err := unix.ByteSliceFromString("lastjid")
	if err != nil {
		return 0, "", err
	}
	nameKey, err := unix.ByteSliceFromString("name")
	if err != nil {
		return 0, "", err
	}
	nameBuf := make([]byte, maxJailNameLen)

	iovs := make([]unix.Iovec, 4)
	iovs[0].Base = &lastJIDKey[0]
	iovs[0].SetLen(len(lastJIDKey))
	iovs[1].Base = (*byte)(unsafe.Pointer(&lastJID))
	iovs[1].SetLen(4)
	iovs[2].Base = &nameKey[0]
	iovs[2].SetLen(len(nameKey))
	iovs[3].Base = &nameBuf[0]
	iovs[3].SetLen(len(nameBuf))

	jid, _, errno := unix.Syscall(unix.SYS_JAIL_GET,
		uintptr(unsafe.Pointer(&iovs[0])), uintptr(len(iovs)), 0)
	if errno != 0 {
		return 0, "", errno
	}
	return int32(jid), unix.ByteSliceToString(nameBuf), nil
}
