// Package types 链上标量类型定义
package types

import (
	"fmt"
	"math/big"
	"strconv"
)

// Address 带0x前缀的20字节16进制小写字符串
type Address string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(input []byte) error {
	return a.UnmarshalText(input[1 : len(input)-1])
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Address) UnmarshalText(input []byte) error {
	*a = Address(input)
	return nil
}

// Hash 带0x前缀的32字节16进制小写字符串
type Hash string

// UnmarshalJSON implements json.Unmarshaler.
func (b *Hash) UnmarshalJSON(input []byte) error {
	return b.UnmarshalText(input[1 : len(input)-1])
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Hash) UnmarshalText(input []byte) error {
	*b = Hash(input)
	return nil
}

// BigInt big number represented by decimal string
type BigInt string

// UnmarshalJSON implements json.Unmarshaler.
func (b *BigInt) UnmarshalJSON(input []byte) error {
	return b.UnmarshalText(input[1 : len(input)-1])
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *BigInt) UnmarshalText(input []byte) error {
	t := new(big.Int)
	err := t.UnmarshalText(input)
	if err != nil {
		return err
	}
	*b = BigInt(t.String())
	return nil
}

// Hex 转16进制表示
func (b BigInt) Hex() string {
	t := new(big.Int)
	t.SetString(string(b), 0)
	return "0x" + t.Text(16)
}

// Uint64 在JSON里用16进制字符串表示的64位无符号整数
type Uint64 uint64

// UnmarshalJSON implements json.Unmarshaler.
func (u *Uint64) UnmarshalJSON(input []byte) error {
	if len(input) > 2 && input[0] == '"' {
		input = input[1 : len(input)-1]
	}
	return u.UnmarshalText(input)
}

// UnmarshalText implements encoding.TextUnmarshaler
func (u *Uint64) UnmarshalText(input []byte) error {
	value, err := strconv.ParseUint(string(input), 0, 64)
	*u = Uint64(value)
	return err
}

// Hex 转16进制表示
func (u Uint64) Hex() string {
	return "0x" + strconv.FormatUint(uint64(u), 16)
}

// Data eth_call返回的带0x前缀的16进制数据
type Data string

// UnmarshalJSON implements json.Unmarshaler.
func (d *Data) UnmarshalJSON(input []byte) error {
	if len(input) < 2 {
		return fmt.Errorf("unexpected data: %s", input)
	}
	*d = Data(input[1 : len(input)-1])
	return nil
}

// CollectionType 合约资产类型分类
type CollectionType string

const (
	CollectionSingle  CollectionType = "SINGLE"  // ERC721，单版本
	CollectionMulti   CollectionType = "MULTI"   // ERC1155，多版本
	CollectionSemi    CollectionType = "SEMI"    // 双标准混合
	CollectionUnknown CollectionType = "UNKNOWN" // 无法识别
)

// ListingType 挂单类型
type ListingType string

const (
	ListingDirect  ListingType = "DIRECT"  // 一口价
	ListingAuction ListingType = "AUCTION" // 拍卖
)

// ActivityType 活动记录类型
type ActivityType string

const (
	ActivityList         ActivityType = "LIST"
	ActivityUnlist       ActivityType = "UNLIST"
	ActivityUpdate       ActivityType = "UPDATE_LISTING"
	ActivityCloseAuction ActivityType = "CLOSE_AUCTION"
	ActivityMakeOffer    ActivityType = "MAKE_OFFER"
	ActivitySale         ActivityType = "SALE"
	ActivityMinted       ActivityType = "MINTED"
	ActivityTransferred  ActivityType = "TRANSFERRED"
)
