package utils

import (
	"fmt"
	"math/big"
	"strconv"

	. "marketscan/common/types"
)

// DaySecond 每日快照的分桶宽度
const DaySecond = 24 * 60 * 60

// HexToBigInt converts a hexadecimal string without 0x prefix to a big number BigInt (illegal input will return 0)
func HexToBigInt(hex string) BigInt {
	b := new(big.Int)
	b.SetString(hex, 16)
	return BigInt(b.Text(10))
}

// HexToUint64 converts a hexadecimal string without 0x prefix to uint64 (illegal input will return 0)
func HexToUint64(hex string) uint64 {
	u, _ := strconv.ParseUint(hex, 16, 64)
	return u
}

// TopicToAddress takes the low 20 bytes of a 32-byte topic as an address
func TopicToAddress(topic Hash) Address {
	return Address("0x" + string(topic[26:]))
}

// TopicToBigInt parses a 32-byte topic as a big number
func TopicToBigInt(topic Hash) BigInt {
	return HexToBigInt(string(topic[2:]))
}

// ParseAddress converts a hexadecimal string prefixed with 0x to an address
func ParseAddress(hex []byte) (Address, error) {
	if len(hex) != 42 {
		return "", fmt.Errorf("length is not 42")
	}
	if hex[0] != '0' || (hex[1] != 'x' && hex[1] != 'X') {
		return "", fmt.Errorf("prefix is not 0x")
	}
	hex[1] = 'x'
	for i := 2; i < 42; i++ {
		c := hex[i]
		if ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') {
			continue
		}
		if 'A' <= c && c <= 'F' {
			hex[i] = c + 32
			continue
		}
		return "", fmt.Errorf("illegal character: %v", c)
	}
	return Address(hex), nil
}

// BigToQty 十进制大数字符串转int64数量（超出范围返回0）
func BigToQty(b BigInt) int64 {
	q, _ := strconv.ParseInt(string(b), 10, 64)
	return q
}
