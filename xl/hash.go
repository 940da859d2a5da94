package xl

import (
	"hash/fnv"

	"github.com/google/uuid"
)

// partsHash fingerprints a set of parts, the same content always yields the
// same identifier.
func partsHash(parts []Part) uuid.UUID {
	h := fnv.New128()
	for _, p := range parts {
		h.Write([]byte(p.Name))
		h.Write([]byte{0})
		h.Write(p.Blob)
	}
	uid, _ := uuid.FromBytes(h.Sum([]byte{}))
	return uid
}
