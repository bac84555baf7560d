package utils

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"marketscan/common/types"
)

var (
	supportsInterfaceSelector = "0x01ffc9a7"
	nameSelector              = "0x06fdde03"
	symbolSelector            = "0x95d89b41"
	contractURISelector       = "0xe8a3d485"
	royaltyInfoSelector       = "0x2a55205a"
	platformFeeBpsSelector    = selector("platformFeeBps()")
	tokenURISelector          = selector("tokenURI(uint256)")
	uriSelector               = selector("uri(uint256)")

	notInterfaceId       = "0xffffffff"
	erc165InterfaceId    = "0x01ffc9a7"
	erc721InterfaceId    = "0x80ac58cd"
	erc1155InterfaceId   = "0xd9b67a26"
	erc721MetadataId     = "0x5b5e139f"
	erc1155MetadataURIId = "0x0e89341c"
	erc2981InterfaceId   = "0x2a55205a"
)

// selector 由函数签名计算4字节选择子
func selector(sig string) string {
	return "0x" + string(Keccak256Hash([]byte(sig))[2:10])
}

// ContractClient eth_call的最小接口，探测调用都走这里，便于测试替换和计数
type ContractClient interface {
	CallContract(ctx context.Context, msg map[string]interface{}, number *types.BigInt) (types.Data, error)
}

// SupportsInterface 查询给定合约是否支持interfaceId
func SupportsInterface(client ContractClient, address types.Address, interfaceId string) (bool, error) {
	msg := map[string]interface{}{
		"to":   address,
		"data": supportsInterfaceSelector + interfaceId[2:10] + "00000000000000000000000000000000000000000000000000000000",
	}
	out, err := client.CallContract(context.Background(), msg, nil)
	if err != nil {
		return false, err
	}

	return ABIDecodeBool(string(out))
}

// Name 查询给定合约的名称（可选接口）
func Name(client ContractClient, address types.Address) (string, error) {
	msg := map[string]interface{}{
		"to":   address,
		"data": nameSelector,
	}
	out, err := client.CallContract(context.Background(), msg, nil)
	if err != nil {
		return *new(string), err
	}

	return ABIDecodeString(string(out))
}

// Symbol 查询给定合约的符号（可选接口）
func Symbol(client ContractClient, address types.Address) (string, error) {
	msg := map[string]interface{}{
		"to":   address,
		"data": symbolSelector,
	}
	out, err := client.CallContract(context.Background(), msg, nil)
	if err != nil {
		return *new(string), err
	}

	return ABIDecodeString(string(out))
}

// ContractURI 查询给定合约的合集元信息URI（可选接口）
func ContractURI(client ContractClient, address types.Address) (string, error) {
	msg := map[string]interface{}{
		"to":   address,
		"data": contractURISelector,
	}
	out, err := client.CallContract(context.Background(), msg, nil)
	if err != nil {
		return *new(string), err
	}

	return ABIDecodeString(string(out))
}

// TokenURI 查询ERC721资产的元信息URI
func TokenURI(client ContractClient, address types.Address, tokenId types.BigInt) (string, error) {
	msg := map[string]interface{}{
		"to":   address,
		"data": tokenURISelector + padBig(tokenId),
	}
	out, err := client.CallContract(context.Background(), msg, nil)
	if err != nil {
		return *new(string), err
	}

	return ABIDecodeString(string(out))
}

// URI 查询ERC1155资产的元信息URI
func URI(client ContractClient, address types.Address, tokenId types.BigInt) (string, error) {
	msg := map[string]interface{}{
		"to":   address,
		"data": uriSelector + padBig(tokenId),
	}
	out, err := client.CallContract(context.Background(), msg, nil)
	if err != nil {
		return *new(string), err
	}

	return ABIDecodeString(string(out))
}

// RoyaltyInfo ERC2981版税查询，返回接收地址和版税金额
func RoyaltyInfo(client ContractClient, address types.Address, tokenId, salePrice types.BigInt) (types.Address, types.BigInt, error) {
	msg := map[string]interface{}{
		"to":   address,
		"data": royaltyInfoSelector + padBig(tokenId) + padBig(salePrice),
	}
	out, err := client.CallContract(context.Background(), msg, nil)
	if err != nil {
		return "", "", err
	}
	if len(out) < 130 {
		return "", "", fmt.Errorf("royaltyInfo return too short: %v", len(out))
	}
	receiver := WordToAddress(string(out[2:66]))
	amount := HexToBigInt(string(out[66:130]))
	return receiver, amount, nil
}

// PlatformFeeBps 市场合约平台费率查询，单位万分之一
func PlatformFeeBps(client ContractClient, address types.Address) (uint64, error) {
	msg := map[string]interface{}{
		"to":   address,
		"data": platformFeeBpsSelector,
	}
	out, err := client.CallContract(context.Background(), msg, nil)
	if err != nil {
		return 0, err
	}

	return ABIDecodeUint64(string(out))
}

// IsERC2981 查询给定合约是否实现版税标准
func IsERC2981(client ContractClient, address types.Address) (bool, error) {
	support, err := SupportsInterface(client, address, erc2981InterfaceId)
	return support, FilterContractErr(err)
}

// GetCollectionType ERC165内省分类资产合约，不可识别返回UNKNOWN
func GetCollectionType(client ContractClient, address types.Address) (types.CollectionType, bool) {
	is165, _ := SupportsInterface(client, address, erc165InterfaceId)
	isNot, _ := SupportsInterface(client, address, notInterfaceId)
	if !is165 || isNot {
		return types.CollectionUnknown, false
	}
	is721, _ := SupportsInterface(client, address, erc721InterfaceId)
	is1155, _ := SupportsInterface(client, address, erc1155InterfaceId)
	if is721 && is1155 {
		// 两种标准都声明的按混合资产处理
		meta, _ := SupportsInterface(client, address, erc721MetadataId)
		return types.CollectionSemi, meta
	}
	if is721 {
		meta, _ := SupportsInterface(client, address, erc721MetadataId)
		return types.CollectionSingle, meta
	}
	if is1155 {
		meta, _ := SupportsInterface(client, address, erc1155MetadataURIId)
		return types.CollectionMulti, meta
	}
	return types.CollectionUnknown, false
}

// WordToAddress 无前缀64字符word转42字符地址
func WordToAddress(word string) types.Address {
	return types.Address("0x" + word[24:])
}

// padBig 十进制大数转64字符无前缀hex word
func padBig(b types.BigInt) string {
	t := new(big.Int)
	t.SetString(string(b), 10)
	return fmt.Sprintf("%064x", t)
}

// ABIDecodeBool 解析单个bool返回值
func ABIDecodeBool(out string) (bool, error) {
	if len(out) < 66 {
		return false, fmt.Errorf("return too short: %v", len(out))
	}
	return out[65] == '1', nil
}

// ABIDecodeUint64 解析单个整数返回值（取低64位）
func ABIDecodeUint64(out string) (uint64, error) {
	if len(out) < 66 {
		return 0, fmt.Errorf("return too short: %v", len(out))
	}
	return HexToUint64(string(out[50:66])), nil
}

// ABIDecodeString 解析单个string返回值
func ABIDecodeString(out string) (string, error) {
	if len(out) < 130 {
		return "", fmt.Errorf("return too short: %v", len(out))
	}
	length := HexToUint64(string(out[66:130]))
	if 130+length*2 > uint64(len(out)) {
		return "", fmt.Errorf("string out of range: %v", length)
	}
	data := make([]byte, length)
	for i := uint64(0); i < length; i++ {
		data[i] = byte(HexToUint64(string(out[130+i*2 : 132+i*2])))
	}
	return string(data), nil
}

// FilterContractErr 过滤掉除网络连接外的错误，合约不支持接口按探测失败处理
func FilterContractErr(err error) error {
	if err != nil {
		if strings.Index(err.Error(), "connection") > 0 {
			return err
		}
		if strings.Index(err.Error(), "unexpected EOF") > 0 {
			return err
		}
	}
	return nil
}
