// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package events

import "golang.org/x/sys/unix"

// Classify maps one rtnetlink link message onto the event kinds it implies,
// in delivery order. known indicates whether the interface index was seen
// before this message; oldFlags are the flags recorded at that time.
//
// A single kernel message can imply several events (a new link that is
// already up yields link-create and link-up).
func Classify(msgType uint16, known bool, oldFlags, newFlags uint32) []Kind {
	var kinds []Kind

	switch msgType {
	case unix.RTM_DELLINK:
		if known && oldFlags&unix.IFF_RUNNING != 0 {
			kinds = append(kinds, NetworkDown)
		}
		if known && oldFlags&unix.IFF_UP != 0 {
			kinds = append(kinds, LinkDown)
		}
		return append(kinds, LinkDelete)

	case unix.RTM_NEWLINK:
		if !known {
			kinds = append(kinds, LinkCreate)
			oldFlags = 0
		}
		if oldFlags&unix.IFF_UP == 0 && newFlags&unix.IFF_UP != 0 {
			kinds = append(kinds, LinkUp)
		}
		if oldFlags&unix.IFF_UP != 0 && newFlags&unix.IFF_UP == 0 {
			kinds = append(kinds, LinkDown)
		}
		if oldFlags&unix.IFF_RUNNING == 0 && newFlags&unix.IFF_RUNNING != 0 {
			kinds = append(kinds, NetworkUp)
		}
		if oldFlags&unix.IFF_RUNNING != 0 && newFlags&unix.IFF_RUNNING == 0 {
			kinds = append(kinds, NetworkDown)
		}
		return kinds

	default:
		return nil
	}
}
