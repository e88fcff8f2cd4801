package fits

import (
	"strings"

	"github.com/snksoft/crc"
)

var headerCrc = crc.NewTable(&crc.Parameters{
	Width:      32,
	Polynomial: 0x04c11db7,
	Init:       0xffffffff,
})

// HeaderChecksum returns a CRC-32 fingerprint of the serialized header.
// It is a cheap change detector for catalog entries; content integrity
// is carried by the sha256 channel digests, not by this value.
func HeaderChecksum(h *Header) uint32 {
	buf := strings.Builder{}
	h.WriteTo(&buf)

	hash := crc.NewHashWithTable(headerCrc)
	hash.Write([]byte(buf.String()))
	return hash.CRC32()
}
