package service

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketscan/common/model"
	"marketscan/common/types"
	"marketscan/common/utils"
)

// getMarketplace 获取市场合约信息，首次出现时创建
func getMarketplace(t *gorm.DB, address types.Address, timestamp uint64) (*model.Marketplace, error) {
	m := model.Marketplace{Address: address}
	if err := t.Find(&m).Error; err != nil {
		return nil, err
	}
	if m.CreatedAt == 0 {
		m.CreatedAt, m.UpdatedAt = timestamp, timestamp
		if err := t.Create(&m).Error; err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// isMarketplace 判断地址是否是已知的市场合约，托管腿的资产转移由挂单事件记账
func isMarketplace(t *gorm.DB, address types.Address) (bool, error) {
	var count int64
	err := t.Model(&model.Marketplace{}).Where("address=?", address).Count(&count).Error
	return count > 0, err
}

func MarketplaceInit(t *gorm.DB, e *model.InitializedEvent) error {
	_, err := getMarketplace(t, e.Address, e.Timestamp)
	return err
}

func MarketplaceUpgraded(t *gorm.DB, e *model.UpgradedEvent) error {
	m, err := getMarketplace(t, e.Address, e.Timestamp)
	if err != nil {
		return err
	}
	return t.Model(&model.Marketplace{}).Where("address=?", m.Address).Updates(map[string]interface{}{
		"version":    m.Version + 1,
		"updated_at": e.Timestamp,
	}).Error
}

// PlatformFeeUpdated 平台费参数变更事件优先于链上探测结果
func PlatformFeeUpdated(t *gorm.DB, e *model.PlatformFeeUpdatedEvent) error {
	m, err := getMarketplace(t, e.Address, e.Timestamp)
	if err != nil {
		return err
	}
	return t.Model(&model.Marketplace{}).Where("address=?", m.Address).Updates(map[string]interface{}{
		"platform_fee":  decimal.NewNullDecimal(decimal.New(int64(e.Bps), -2)),
		"fee_recipient": e.Recipient,
		"updated_at":    e.Timestamp,
	}).Error
}

func AuctionBuffersUpdated(t *gorm.DB, e *model.AuctionBuffersUpdatedEvent) error {
	m, err := getMarketplace(t, e.Address, e.Timestamp)
	if err != nil {
		return err
	}
	return t.Model(&model.Marketplace{}).Where("address=?", m.Address).Updates(map[string]interface{}{
		"time_buffer": e.TimeBuffer,
		"bid_buffer":  e.BidBuffer,
		"updated_at":  e.Timestamp,
	}).Error
}

// ensurePlatformFee 平台费率未知时探测一次并缓存，合约不支持作0
func ensurePlatformFee(t *gorm.DB, m *model.Marketplace) error {
	if m.PlatformFee.Valid {
		return nil
	}
	bps, err := utils.PlatformFeeBps(Client, m.Address)
	if err != nil {
		if err = utils.FilterContractErr(err); err != nil {
			return err
		}
		bps = 0
	}
	m.PlatformFee = decimal.NewNullDecimal(decimal.New(int64(bps), -2))
	return t.Model(&model.Marketplace{}).Where("address=?", m.Address).Update("platform_fee", m.PlatformFee).Error
}
