// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package core

import (
	"encoding/binary"
)

func uint64ToBytes(i uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, i)
	return b
}
