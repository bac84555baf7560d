package utils

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"marketscan/common/model"
	"marketscan/common/types"
)

// marketplaceABI 只声明需要解包的带结构体参数的部分，其余事件手工按word切片解析
const marketplaceABIJSON = `[
{"type":"event","name":"ListingAdded","inputs":[
 {"name":"listingId","type":"uint256","indexed":true},
 {"name":"assetContract","type":"address","indexed":true},
 {"name":"lister","type":"address","indexed":true},
 {"name":"listing","type":"tuple","indexed":false,"components":[
  {"name":"listingId","type":"uint256"},
  {"name":"tokenOwner","type":"address"},
  {"name":"assetContract","type":"address"},
  {"name":"tokenId","type":"uint256"},
  {"name":"startTime","type":"uint256"},
  {"name":"endTime","type":"uint256"},
  {"name":"quantity","type":"uint256"},
  {"name":"currency","type":"address"},
  {"name":"reservePricePerToken","type":"uint256"},
  {"name":"buyoutPricePerToken","type":"uint256"},
  {"name":"tokenType","type":"uint8"},
  {"name":"listingType","type":"uint8"}]}]},
{"type":"function","name":"listings","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[
 {"name":"listingId","type":"uint256"},
 {"name":"tokenOwner","type":"address"},
 {"name":"assetContract","type":"address"},
 {"name":"tokenId","type":"uint256"},
 {"name":"startTime","type":"uint256"},
 {"name":"endTime","type":"uint256"},
 {"name":"quantity","type":"uint256"},
 {"name":"currency","type":"address"},
 {"name":"reservePricePerToken","type":"uint256"},
 {"name":"buyoutPricePerToken","type":"uint256"},
 {"name":"tokenType","type":"uint8"},
 {"name":"listingType","type":"uint8"}]}
]`

var marketplaceABI = func() abi.ABI {
	a, err := abi.JSON(strings.NewReader(marketplaceABIJSON))
	if err != nil {
		panic(err)
	}
	return a
}()

var (
	listingAddedTopic   = types.Hash(marketplaceABI.Events["ListingAdded"].ID.Hex())
	listingRemovedTopic = Keccak256Hash([]byte("ListingRemoved(uint256,address)"))
	listingUpdatedTopic = Keccak256Hash([]byte("ListingUpdated(uint256,address)"))
	auctionClosedTopic  = Keccak256Hash([]byte("AuctionClosed(uint256,address,bool,address,address)"))
	newOfferTopic       = Keccak256Hash([]byte("NewOffer(uint256,address,uint8,uint256,uint256,address,uint256)"))
	newSaleTopic        = Keccak256Hash([]byte("NewSale(uint256,address,address,address,uint256,uint256)"))
	platformFeeTopic    = Keccak256Hash([]byte("PlatformFeeInfoUpdated(address,uint256)"))
	auctionBuffersTopic = Keccak256Hash([]byte("AuctionBuffersUpdated(uint256,uint256)"))
	initializedTopic    = Keccak256Hash([]byte("Initialized(uint8)"))
	upgradedTopic       = Keccak256Hash([]byte("Upgraded(address)"))
	transferTopic       = Keccak256Hash([]byte("Transfer(address,address,uint256)"))
	transferSingleTopic = Keccak256Hash([]byte("TransferSingle(address,address,address,uint256,uint256)"))
	transferBatchTopic  = Keccak256Hash([]byte("TransferBatch(address,address,address,uint256[],uint256[])"))
)

// ScanTopics 需要订阅的全部事件主题，作eth_getLogs的topic0过滤条件
func ScanTopics() []types.Hash {
	return []types.Hash{
		listingAddedTopic, listingRemovedTopic, listingUpdatedTopic, auctionClosedTopic,
		newOfferTopic, newSaleTopic, platformFeeTopic, auctionBuffersTopic,
		initializedTopic, upgradedTopic,
		transferTopic, transferSingleTopic, transferBatchTopic,
	}
}

// listingStruct go-ethereum解包ListingAdded结构体参数和listings()返回值的目标类型
type listingStruct struct {
	ListingId            *big.Int
	TokenOwner           common.Address
	AssetContract        common.Address
	TokenId              *big.Int
	StartTime            *big.Int
	EndTime              *big.Int
	Quantity             *big.Int
	Currency             common.Address
	ReservePricePerToken *big.Int
	BuyoutPricePerToken  *big.Int
	TokenType            uint8
	ListingType          uint8
}

func (ls *listingStruct) raw() model.RawListing {
	return model.RawListing{
		TokenId:      types.BigInt(ls.TokenId.String()),
		TokenOwner:   lowerAddress(ls.TokenOwner),
		StartTime:    ls.StartTime.Uint64(),
		EndTime:      ls.EndTime.Uint64(),
		Quantity:     types.BigInt(ls.Quantity.String()),
		Currency:     lowerAddress(ls.Currency),
		ReservePrice: types.BigInt(ls.ReservePricePerToken.String()),
		BuyoutPrice:  types.BigInt(ls.BuyoutPricePerToken.String()),
		Type:         listingType(ls.ListingType),
	}
}

func lowerAddress(a common.Address) types.Address {
	return types.Address(strings.ToLower(a.Hex()))
}

func listingType(t uint8) types.ListingType {
	if t == 1 {
		return types.ListingAuction
	}
	return types.ListingDirect
}

// GetListing 从市场合约权威读取挂单当前条款，挂单变更事件不携带新值
func GetListing(client ContractClient, marketplace types.Address, listingId types.BigInt) (*model.RawListing, error) {
	id := new(big.Int)
	id.SetString(string(listingId), 10)
	data, err := marketplaceABI.Pack("listings", id)
	if err != nil {
		return nil, err
	}
	msg := map[string]interface{}{
		"to":   marketplace,
		"data": hexutil.Encode(data),
	}
	out, err := client.CallContract(context.Background(), msg, nil)
	if err != nil {
		return nil, err
	}
	ret, err := hexutil.Decode(string(out))
	if err != nil {
		return nil, err
	}
	values, err := marketplaceABI.Unpack("listings", ret)
	if err != nil {
		return nil, err
	}
	if len(values) != 12 {
		return nil, fmt.Errorf("listings return %v values", len(values))
	}
	ls := listingStruct{
		TokenOwner:           *abi.ConvertType(values[1], new(common.Address)).(*common.Address),
		TokenId:              *abi.ConvertType(values[3], new(*big.Int)).(**big.Int),
		StartTime:            *abi.ConvertType(values[4], new(*big.Int)).(**big.Int),
		EndTime:              *abi.ConvertType(values[5], new(*big.Int)).(**big.Int),
		Quantity:             *abi.ConvertType(values[6], new(*big.Int)).(**big.Int),
		Currency:             *abi.ConvertType(values[7], new(common.Address)).(*common.Address),
		ReservePricePerToken: *abi.ConvertType(values[8], new(*big.Int)).(**big.Int),
		BuyoutPricePerToken:  *abi.ConvertType(values[9], new(*big.Int)).(**big.Int),
		ListingType:          *abi.ConvertType(values[11], new(uint8)).(*uint8),
	}
	raw := ls.raw()
	return &raw, nil
}

// UnpackMarketplaceLog 解析市场合约日志为事件，识别不了的返回nil
func UnpackMarketplaceLog(log *model.EventLog) model.Event {
	if len(log.Topics) == 0 {
		return nil
	}
	head := envelope(log)
	d := log.Data
	switch log.Topics[0] {
	case listingAddedTopic:
		if len(log.Topics) != 4 {
			return nil
		}
		data, err := hexutil.Decode(d)
		if err != nil {
			return nil
		}
		values, err := marketplaceABI.Unpack("ListingAdded", data)
		if err != nil || len(values) != 1 {
			return nil
		}
		ls := *abi.ConvertType(values[0], new(listingStruct)).(*listingStruct)
		return &model.ListingAddedEvent{
			Envelope:   head,
			ListingId:  TopicToBigInt(log.Topics[1]),
			Collection: TopicToAddress(log.Topics[2]),
			Lister:     TopicToAddress(log.Topics[3]),
			Listing:    ls.raw(),
		}
	case listingRemovedTopic:
		if len(log.Topics) != 3 {
			return nil
		}
		return &model.ListingRemovedEvent{
			Envelope:  head,
			ListingId: TopicToBigInt(log.Topics[1]),
			Creator:   TopicToAddress(log.Topics[2]),
		}
	case listingUpdatedTopic:
		if len(log.Topics) != 3 {
			return nil
		}
		return &model.ListingUpdatedEvent{
			Envelope:  head,
			ListingId: TopicToBigInt(log.Topics[1]),
			Creator:   TopicToAddress(log.Topics[2]),
		}
	case auctionClosedTopic:
		if len(log.Topics) != 4 || len(d) < 130 {
			return nil
		}
		return &model.AuctionClosedEvent{
			Envelope:      head,
			ListingId:     TopicToBigInt(log.Topics[1]),
			Closer:        TopicToAddress(log.Topics[2]),
			Cancelled:     log.Topics[3][65] == '1',
			Creator:       WordToAddress(d[2:66]),
			WinningBidder: WordToAddress(d[66:130]),
		}
	case newOfferTopic:
		if len(log.Topics) != 4 || len(d) < 258 {
			return nil
		}
		return &model.NewOfferEvent{
			Envelope:  head,
			ListingId: TopicToBigInt(log.Topics[1]),
			Offeror:   TopicToAddress(log.Topics[2]),
			Type:      listingType(uint8(HexToUint64(string(log.Topics[3][50:66])))),
			Quantity:  HexToBigInt(d[2:66]),
			Amount:    HexToBigInt(d[66:130]),
			Currency:  WordToAddress(d[130:194]),
			ExpiredAt: HexToUint64(d[242:258]),
		}
	case newSaleTopic:
		if len(log.Topics) != 4 || len(d) < 194 {
			return nil
		}
		return &model.NewSaleEvent{
			Envelope:   head,
			ListingId:  TopicToBigInt(log.Topics[1]),
			Collection: TopicToAddress(log.Topics[2]),
			Seller:     TopicToAddress(log.Topics[3]),
			Buyer:      WordToAddress(d[2:66]),
			Quantity:   HexToBigInt(d[66:130]),
			Payment:    HexToBigInt(d[130:194]),
		}
	case platformFeeTopic:
		if len(log.Topics) != 2 || len(d) < 66 {
			return nil
		}
		return &model.PlatformFeeUpdatedEvent{
			Envelope:  head,
			Recipient: TopicToAddress(log.Topics[1]),
			Bps:       HexToUint64(d[50:66]),
		}
	case auctionBuffersTopic:
		if len(d) < 130 {
			return nil
		}
		return &model.AuctionBuffersUpdatedEvent{
			Envelope:   head,
			TimeBuffer: HexToUint64(d[50:66]),
			BidBuffer:  HexToUint64(d[114:130]),
		}
	case initializedTopic:
		return &model.InitializedEvent{Envelope: head}
	case upgradedTopic:
		if len(log.Topics) != 2 {
			return nil
		}
		return &model.UpgradedEvent{
			Envelope:       head,
			Implementation: TopicToAddress(log.Topics[1]),
		}
	}
	return nil
}

// UnpackTransferLog 解析NFT转移日志，ERC20的Transfer主题相同但少一个topic，据此排除
func UnpackTransferLog(log *model.EventLog) []model.Event {
	topicsLen := len(log.Topics)
	head := envelope(log)
	d := log.Data
	if topicsLen == 4 && log.Topics[0] == transferTopic && len(d) <= 2 {
		// ERC721转移事件
		return []model.Event{&model.TransferEvent{
			Envelope:   head,
			Collection: log.Address,
			From:       TopicToAddress(log.Topics[1]),
			To:         TopicToAddress(log.Topics[2]),
			TokenId:    TopicToBigInt(log.Topics[3]),
			Value:      "1",
		}}
	}
	if topicsLen == 4 && log.Topics[0] == transferSingleTopic && len(d) >= 130 {
		// ERC1155单个转移事件
		return []model.Event{&model.TransferEvent{
			Envelope:   head,
			Collection: log.Address,
			Operator:   TopicToAddress(log.Topics[1]),
			From:       TopicToAddress(log.Topics[2]),
			To:         TopicToAddress(log.Topics[3]),
			TokenId:    HexToBigInt(d[2:66]),
			Value:      HexToBigInt(d[66:130]),
		}}
	}
	if topicsLen == 4 && log.Topics[0] == transferBatchTopic {
		// ERC1155批量转移事件
		// 动态数据编解码参考: https://docs.soliditylang.org/en/v0.8.13/abi-spec.html#argument-encoding
		wordLen := (len(d) - 2) / 64
		if wordLen < 4 || wordLen%2 != 0 || d[2:66] != "0000000000000000000000000000000000000000000000000000000000000040" {
			return nil
		}
		operator, from, to := TopicToAddress(log.Topics[1]), TopicToAddress(log.Topics[2]), TopicToAddress(log.Topics[3])
		transferCount := (wordLen - 4) / 2
		events := make([]model.Event, transferCount)
		for i := 0; i < transferCount; i++ {
			idOffset, valueOffset := 2+(i+3)*64, 2+(transferCount+i+4)*64
			events[i] = &model.TransferEvent{
				Envelope:   head,
				Collection: log.Address,
				Operator:   operator,
				From:       from,
				To:         to,
				TokenId:    HexToBigInt(d[idOffset : idOffset+64]),
				Value:      HexToBigInt(d[valueOffset : valueOffset+64]),
				SubIndex:   i,
			}
		}
		return events
	}
	return nil
}

func envelope(log *model.EventLog) model.Envelope {
	return model.Envelope{
		BlockNumber: uint64(log.BlockNumber),
		TxHash:      log.TxHash,
		LogIndex:    uint64(log.Index),
		Address:     log.Address,
	}
}
