// Package model 数据库表定义
package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"marketscan/common/types"
)

var Tables = []interface{}{
	&Cache{},
	&Account{},
	&Collection{},
	&CollectionStats{},
	&Token{},
	&TokenBalance{},
	&Listing{},
	&Offer{},
	&Sale{},
	&Activity{},
	&Marketplace{},
	&CollectionSnapshot{},
	&MarketplaceSnapshot{},
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Tables...)
}

func DropTable(db *gorm.DB) error {
	return db.Migrator().DropTable(Tables...)
}

// Cache 扫描进度等键值缓存
type Cache struct {
	Key   string `json:"key" gorm:"type:VARCHAR(64);primaryKey"` //键
	Value string `json:"value" gorm:"type:VARCHAR(128)"`         //值
}

// Account 账户信息，首次出现时惰性创建，只作地址存在标记
type Account struct {
	Address types.Address `json:"address" gorm:"type:CHAR(42);primaryKey"` //地址
}

// Collection 合集信息，一个资产合约一条
type Collection struct {
	Address          types.Address        `json:"address" gorm:"type:CHAR(42);primaryKey"`  //合约地址
	Name             string               `json:"name" gorm:"type:VARCHAR(256)"`            //名称
	Symbol           string               `json:"symbol" gorm:"type:VARCHAR(64)"`           //符号
	MetadataURI      string               `json:"metadataURI"`                              //合集元信息URI
	Type             types.CollectionType `json:"type" gorm:"type:VARCHAR(8)"`              //资产类型分类
	SupportsMetadata bool                 `json:"supportsMetadata"`                         //是否支持标准元信息接口
	RoyaltyFee       decimal.NullDecimal  `json:"royaltyFee" gorm:"type:DECIMAL(40,18)"`    //版税费率（百分比），NULL表示未探测
	TradeVolume      decimal.Decimal      `json:"tradeVolume" gorm:"type:DECIMAL(40,18)"`   //累计交易额
	MarketRevenue    decimal.Decimal      `json:"marketRevenue" gorm:"type:DECIMAL(40,18)"` //累计平台收入
	CreatorRevenue   decimal.Decimal      `json:"creatorRevenue" gorm:"type:DECIMAL(40,18)"`//累计创建者收入
	TotalRevenue     decimal.Decimal      `json:"totalRevenue" gorm:"type:DECIMAL(40,18)"`  //总收入=平台+创建者，随每笔成交重算
	CreatedAt        uint64               `json:"createdAt"`                                //创建时间戳
	UpdatedAt        uint64               `json:"updatedAt"`                                //更新时间戳
}

// CollectionStats 合集挂单和成交统计
type CollectionStats struct {
	Collection  types.Address   `json:"collection" gorm:"type:CHAR(42);primaryKey"` //所属合集地址
	Listed      int64           `json:"listed"`                                     //当前开放挂单的可售数量合计
	Sales       int64           `json:"sales"`                                      //成交笔数
	Volume      decimal.Decimal `json:"volume" gorm:"type:DECIMAL(40,18)"`          //成交额
	HighestSale decimal.Decimal `json:"highestSale" gorm:"type:DECIMAL(40,18)"`     //最高单价成交
	FloorPrice  decimal.Decimal `json:"floorPrice" gorm:"type:DECIMAL(40,18)"`      //最低单价成交，0表示未成交过
	AvgPrice    decimal.Decimal `json:"avgPrice" gorm:"type:DECIMAL(40,18)"`        //平均单价
}

// Token 资产信息，合集地址+tokenId唯一标识
type Token struct {
	ID         string        `json:"id" gorm:"type:VARCHAR(128);primaryKey"`  //collection:tokenId
	Collection types.Address `json:"collection" gorm:"type:CHAR(42);index"`   //所属合集地址
	TokenId    types.BigInt  `json:"tokenId" gorm:"type:VARCHAR(80)"`         //代币ID
	Creator    types.Address `json:"creator" gorm:"type:CHAR(42)"`            //创建者，铸造时填充
	URI        string        `json:"uri"`                                     //元信息URI
	CreatedAt  uint64        `json:"createdAt"`                               //创建时间戳
	UpdatedAt  uint64        `json:"updatedAt"`                               //更新时间戳
}

// TokenBalance 资产持有量，owner为空表示总发行量
type TokenBalance struct {
	ID         string         `json:"id" gorm:"type:VARCHAR(192);primaryKey"` //token:owner或token:totalSupply
	Collection types.Address  `json:"collection" gorm:"type:CHAR(42);index"`  //所属合集地址
	Token      string         `json:"token" gorm:"type:VARCHAR(128);index"`   //所属资产
	Owner      *types.Address `json:"owner" gorm:"type:CHAR(42);index"`       //持有者，空为总发行量记录
	Value      types.BigInt   `json:"value" gorm:"type:VARCHAR(80)"`          //持有量
}

// Listing 挂单信息，市场合约分配的ID加市场地址作用域
type Listing struct {
	ID           string            `json:"id" gorm:"type:VARCHAR(128);primaryKey"`   //marketplace:listingId
	Marketplace  types.Address     `json:"marketplace" gorm:"type:CHAR(42);index"`   //所属市场合约
	Collection   types.Address     `json:"collection" gorm:"type:CHAR(42);index"`    //资产合约地址
	Token        string            `json:"token" gorm:"type:VARCHAR(128);index"`     //资产ID
	Owner        types.Address     `json:"owner" gorm:"type:CHAR(42);index"`         //挂单者
	Type         types.ListingType `json:"type" gorm:"type:VARCHAR(8)"`              //一口价或拍卖
	StartTime    uint64            `json:"startTime"`                                //开始时间
	EndTime      uint64            `json:"endTime"`                                  //结束时间
	Currency     types.Address     `json:"currency" gorm:"type:CHAR(42)"`            //计价币种
	ReservePrice types.BigInt      `json:"reservePrice" gorm:"type:VARCHAR(80)"`     //保留价，单位wei
	BuyoutPrice  types.BigInt      `json:"buyoutPrice" gorm:"type:VARCHAR(80)"`      //一口价，单位wei
	Quantity     types.BigInt      `json:"quantity" gorm:"type:VARCHAR(80)"`         //挂单总量
	AvailableQty types.BigInt      `json:"availableQty" gorm:"type:VARCHAR(80)"`     //剩余可售量
	CreatedAt    uint64            `json:"createdAt"`                                //创建时间戳
	UpdatedAt    uint64            `json:"updatedAt"`                                //更新时间戳
	ClosedAt     *uint64           `json:"closedAt"`                                 //关闭时间戳，开放中为null
}

// Offer 报价信息，同一买家对同一挂单只保留最新一条
type Offer struct {
	ID        string          `json:"id" gorm:"type:VARCHAR(192);primaryKey"` //listing:bidder
	Listing   string          `json:"listing" gorm:"type:VARCHAR(128);index"` //所属挂单
	Bidder    types.Address   `json:"bidder" gorm:"type:CHAR(42);index"`      //出价者
	Quantity  types.BigInt    `json:"quantity" gorm:"type:VARCHAR(80)"`       //求购数量
	Currency  types.Address   `json:"currency" gorm:"type:CHAR(42)"`          //计价币种
	Amount    decimal.Decimal `json:"amount" gorm:"type:DECIMAL(40,18)"`      //总报价
	ExpiredAt uint64          `json:"expiredAt"`                              //报价过期时间戳
	TxHash    types.Hash      `json:"txHash" gorm:"type:CHAR(66)"`            //报价交易哈希
	Timestamp uint64          `json:"timestamp"`                              //报价时间戳
}

// Sale 成交记录，只追加不修改
type Sale struct {
	ID        string          `json:"id" gorm:"type:VARCHAR(80);primaryKey"`  //txHash-logIndex
	Listing   string          `json:"listing" gorm:"type:VARCHAR(128);index"` //所属挂单
	Seller    types.Address   `json:"seller" gorm:"type:CHAR(42);index"`      //卖家
	Buyer     types.Address   `json:"buyer" gorm:"type:CHAR(42);index"`       //买家
	Quantity  types.BigInt    `json:"quantity" gorm:"type:VARCHAR(80)"`       //成交数量
	Payment   types.BigInt    `json:"payment" gorm:"type:VARCHAR(80)"`        //总支付，单位wei
	Currency  types.Address   `json:"currency" gorm:"type:CHAR(42)"`          //实际结算币种
	UnitPrice decimal.Decimal `json:"unitPrice" gorm:"type:DECIMAL(40,18)"`   //换算后的单价
	TxHash    types.Hash      `json:"txHash" gorm:"type:CHAR(66);index"`      //交易哈希
	Timestamp uint64          `json:"timestamp" gorm:"index"`                 //成交时间戳
}

// Activity 活动记录，每个有意义的状态变化一条，只追加不修改
type Activity struct {
	ID          string             `json:"id" gorm:"type:VARCHAR(96);primaryKey"`  //txHash-logIndex[-k]
	Type        types.ActivityType `json:"type" gorm:"type:VARCHAR(16);index"`     //活动类型
	From        types.Address      `json:"from" gorm:"type:CHAR(42);index"`        //发起方
	To          types.Address      `json:"to" gorm:"type:CHAR(42);index"`          //接收方
	Collection  types.Address      `json:"collection" gorm:"type:CHAR(42);index"`  //资产合约地址
	Token       string             `json:"token" gorm:"type:VARCHAR(128);index"`   //资产ID
	Quantity    types.BigInt       `json:"quantity" gorm:"type:VARCHAR(80)"`       //数量
	Currency    types.Address      `json:"currency" gorm:"type:CHAR(42)"`          //计价币种
	Price       decimal.Decimal    `json:"price" gorm:"type:DECIMAL(40,18)"`       //单价
	BlockNumber uint64             `json:"blockNumber" gorm:"index"`               //区块号
	TxHash      types.Hash         `json:"txHash" gorm:"type:CHAR(66)"`            //交易哈希
	Timestamp   uint64             `json:"timestamp" gorm:"index"`                 //时间戳
}

// Marketplace 市场合约信息和全局累计统计
type Marketplace struct {
	Address        types.Address       `json:"address" gorm:"type:CHAR(42);primaryKey"`  //市场合约地址
	Version        uint64              `json:"version"`                                  //协议版本计数
	PlatformFee    decimal.NullDecimal `json:"platformFee" gorm:"type:DECIMAL(40,18)"`   //平台费率（百分比），NULL表示未探测
	FeeRecipient   types.Address       `json:"feeRecipient" gorm:"type:CHAR(42)"`        //平台费接收地址
	TimeBuffer     uint64              `json:"timeBuffer"`                               //拍卖时间缓冲，单位秒
	BidBuffer      uint64              `json:"bidBuffer"`                                //拍卖加价缓冲，单位万分之一
	TradeVolume    decimal.Decimal     `json:"tradeVolume" gorm:"type:DECIMAL(40,18)"`   //累计交易额
	MarketRevenue  decimal.Decimal     `json:"marketRevenue" gorm:"type:DECIMAL(40,18)"` //累计平台收入
	CreatorRevenue decimal.Decimal     `json:"creatorRevenue" gorm:"type:DECIMAL(40,18)"`//累计创建者收入
	TotalRevenue   decimal.Decimal     `json:"totalRevenue" gorm:"type:DECIMAL(40,18)"`  //总收入=平台+创建者
	CreatedAt      uint64              `json:"createdAt"`                                //创建时间戳
	UpdatedAt      uint64              `json:"updatedAt"`                                //更新时间戳
}

// CollectionSnapshot 合集每日快照，按天分桶，桶内累加
type CollectionSnapshot struct {
	ID             string          `json:"id" gorm:"type:VARCHAR(64);primaryKey"`    //collection-day
	Collection     types.Address   `json:"collection" gorm:"type:CHAR(42);index"`    //所属合集地址
	BlockNumber    uint64          `json:"blockNumber"`                              //桶内最后更新的区块号
	Timestamp      uint64          `json:"timestamp"`                                //桶内最后更新的时间戳
	DailyVolume    decimal.Decimal `json:"dailyVolume" gorm:"type:DECIMAL(40,18)"`   //当日交易额
	DailyMinPrice  decimal.Decimal `json:"dailyMinPrice" gorm:"type:DECIMAL(40,18)"` //当日最低单价，初始为最大值哨兵
	DailyMaxPrice  decimal.Decimal `json:"dailyMaxPrice" gorm:"type:DECIMAL(40,18)"` //当日最高单价，初始为0
	TradeVolume    decimal.Decimal `json:"tradeVolume" gorm:"type:DECIMAL(40,18)"`   //截至当日的累计交易额
	MarketRevenue  decimal.Decimal `json:"marketRevenue" gorm:"type:DECIMAL(40,18)"` //截至当日的累计平台收入
	CreatorRevenue decimal.Decimal `json:"creatorRevenue" gorm:"type:DECIMAL(40,18)"`//截至当日的累计创建者收入
	TotalRevenue   decimal.Decimal `json:"totalRevenue" gorm:"type:DECIMAL(40,18)"`  //截至当日的总收入
}

// MarketplaceSnapshot 市场每日快照，按天分桶
type MarketplaceSnapshot struct {
	ID             string          `json:"id" gorm:"type:VARCHAR(64);primaryKey"`    //marketplace-day
	Marketplace    types.Address   `json:"marketplace" gorm:"type:CHAR(42);index"`   //所属市场合约
	BlockNumber    uint64          `json:"blockNumber"`                              //桶内最后更新的区块号
	Timestamp      uint64          `json:"timestamp"`                                //桶内最后更新的时间戳
	DailyVolume    decimal.Decimal `json:"dailyVolume" gorm:"type:DECIMAL(40,18)"`   //当日交易额
	DailyMinPrice  decimal.Decimal `json:"dailyMinPrice" gorm:"type:DECIMAL(40,18)"` //当日最低单价，初始为最大值哨兵
	DailyMaxPrice  decimal.Decimal `json:"dailyMaxPrice" gorm:"type:DECIMAL(40,18)"` //当日最高单价，初始为0
	TradeVolume    decimal.Decimal `json:"tradeVolume" gorm:"type:DECIMAL(40,18)"`   //截至当日的累计交易额
	MarketRevenue  decimal.Decimal `json:"marketRevenue" gorm:"type:DECIMAL(40,18)"` //截至当日的累计平台收入
	CreatorRevenue decimal.Decimal `json:"creatorRevenue" gorm:"type:DECIMAL(40,18)"`//截至当日的累计创建者收入
	TotalRevenue   decimal.Decimal `json:"totalRevenue" gorm:"type:DECIMAL(40,18)"`  //截至当日的总收入
}
