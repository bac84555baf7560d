package model

import (
	"marketscan/common/types"
)

// EventLog eth_getLogs返回的原始日志
type EventLog struct {
	Address     types.Address `json:"address"`          //发出日志的合约地址
	Topics      []types.Hash  `json:"topics"`           //主题
	Data        string        `json:"data"`             //数据
	Removed     bool          `json:"removed"`          //是否移除
	BlockNumber types.Uint64  `json:"blockNumber"`      //区块号
	TxHash      types.Hash    `json:"transactionHash"`  //所属交易哈希
	Index       types.Uint64  `json:"logIndex"`         //在区块内的序号
}

// Envelope 每个事件携带的区块和交易元信息
type Envelope struct {
	BlockNumber uint64        `json:"blockNumber"` //区块号
	Timestamp   uint64        `json:"timestamp"`   //区块时间戳
	TxHash      types.Hash    `json:"txHash"`      //交易哈希
	LogIndex    uint64        `json:"logIndex"`    //日志序号
	Address     types.Address `json:"address"`     //发出事件的合约地址
}

// Event 已解析的链上事件，封闭联合，按类型switch分发
type Event interface {
	Head() *Envelope
}

func (e *Envelope) Head() *Envelope { return e }

// RawListing ListingAdded事件携带的挂单结构，也是链上listings(id)的权威读取结果
type RawListing struct {
	TokenId      types.BigInt      //代币ID
	TokenOwner   types.Address     //挂单者
	StartTime    uint64            //开始时间
	EndTime      uint64            //结束时间
	Quantity     types.BigInt      //数量
	Currency     types.Address     //计价币种
	ReservePrice types.BigInt      //保留价
	BuyoutPrice  types.BigInt      //一口价
	Type         types.ListingType //挂单类型
}

// InitializedEvent 市场合约初始化
type InitializedEvent struct {
	Envelope
}

// UpgradedEvent 市场合约实现升级
type UpgradedEvent struct {
	Envelope
	Implementation types.Address //新实现地址
}

// ListingAddedEvent 新挂单
type ListingAddedEvent struct {
	Envelope
	ListingId  types.BigInt  //挂单ID
	Collection types.Address //资产合约地址
	Lister     types.Address //挂单者
	Listing    RawListing    //挂单结构
}

// ListingRemovedEvent 移除挂单
type ListingRemovedEvent struct {
	Envelope
	ListingId types.BigInt  //挂单ID
	Creator   types.Address //挂单者
}

// ListingUpdatedEvent 挂单变更，触发权威重读
type ListingUpdatedEvent struct {
	Envelope
	ListingId types.BigInt  //挂单ID
	Creator   types.Address //挂单者
}

// AuctionClosedEvent 拍卖关闭
type AuctionClosedEvent struct {
	Envelope
	ListingId     types.BigInt  //挂单ID
	Closer        types.Address //关闭者
	Cancelled     bool          //是否取消
	Creator       types.Address //挂单者
	WinningBidder types.Address //中标者
}

// NewOfferEvent 新报价
type NewOfferEvent struct {
	Envelope
	ListingId types.BigInt      //挂单ID
	Offeror   types.Address     //出价者
	Type      types.ListingType //挂单类型
	Quantity  types.BigInt      //求购数量
	Amount    types.BigInt      //总报价，单位wei
	Currency  types.Address     //计价币种
	ExpiredAt uint64            //过期时间戳
}

// NewSaleEvent 成交
type NewSaleEvent struct {
	Envelope
	ListingId  types.BigInt  //挂单ID
	Collection types.Address //资产合约地址
	Seller     types.Address //卖家
	Buyer      types.Address //买家
	Quantity   types.BigInt  //成交数量
	Payment    types.BigInt  //总支付，单位wei
}

// PlatformFeeUpdatedEvent 平台费参数变更
type PlatformFeeUpdatedEvent struct {
	Envelope
	Recipient types.Address //平台费接收地址
	Bps       uint64        //费率，单位万分之一
}

// AuctionBuffersUpdatedEvent 拍卖缓冲参数变更
type AuctionBuffersUpdatedEvent struct {
	Envelope
	TimeBuffer uint64 //时间缓冲，单位秒
	BidBuffer  uint64 //加价缓冲，单位万分之一
}

// TransferEvent 资产转移，ERC721和ERC1155统一表示
type TransferEvent struct {
	Envelope
	Collection types.Address //资产合约地址
	Operator   types.Address //操作者，ERC721为空
	From       types.Address //发起地址
	To         types.Address //接收地址
	TokenId    types.BigInt  //代币ID
	Value      types.BigInt  //数量，ERC721恒为1
	SubIndex   int           //批量转移事件内的序号
}

// Parsed 一个区块解析出的按logIndex有序的事件批
type Parsed struct {
	Number    uint64       `json:"number"`    //区块号
	Hash      types.Hash   `json:"hash"`      //区块哈希
	Timestamp uint64       `json:"timestamp"` //区块时间戳
	Events    []Event      `json:"events"`    //有序事件
}
