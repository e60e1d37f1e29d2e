package encoding

// Uint16LE reassembles a 2-byte little-endian field. The least significant
// byte comes first.
func Uint16LE(data [2]byte) uint16 {
	return uint16(data[0]) | uint16(data[1])<<8
}

// Uint32LE reassembles a 4-byte little-endian field.
func Uint32LE(data [4]byte) uint32 {
	return uint32(data[0]) |
		uint32(data[1])<<8 |
		uint32(data[2])<<16 |
		uint32(data[3])<<24
}

// PutUint16LE writes val into a 2-byte little-endian field.
func PutUint16LE(val uint16) [2]byte {
	return [2]byte{byte(val), byte(val >> 8)}
}

// PutUint32LE writes val into a 4-byte little-endian field.
func PutUint32LE(val uint32) [4]byte {
	return [4]byte{byte(val), byte(val >> 8), byte(val >> 16), byte(val >> 24)}
}
