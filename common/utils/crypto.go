package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
	"marketscan/common/types"
)

// Keccak256Hash calculates Keccak256 and returns the 0x-prefixed hash
func Keccak256Hash(data ...[]byte) (h types.Hash) {
	return types.Hash("0x" + hex.EncodeToString(Keccak256(data...)))
}

// Keccak256 Calculate Keccak256 return byte array (32 bytes)
func Keccak256(data ...[]byte) (h []byte) {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}

	return d.Sum(nil)
}
