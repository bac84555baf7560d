package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketscan/common/model"
	"marketscan/common/types"
	"marketscan/common/utils"
)

// maxPrice 当日最低单价的初始哨兵值
var maxPrice = decimal.NewFromInt(math.MaxInt32)

func snapshotID(owner types.Address, timestamp uint64) string {
	return fmt.Sprintf("%v-%v", owner, timestamp/utils.DaySecond)
}

// updateCollectionSnapshot 按天分桶累加合集成交，并拷贝截至当日的累计值
func updateCollectionSnapshot(t *gorm.DB, c *model.Collection, head *model.Envelope, payment, unitPrice decimal.Decimal) error {
	s := model.CollectionSnapshot{ID: snapshotID(c.Address, head.Timestamp)}
	if err := t.Find(&s).Error; err != nil {
		return err
	}
	if s.Collection == "" {
		s.Collection = c.Address
		s.DailyMinPrice, s.DailyMaxPrice = maxPrice, decimal.Zero
	}
	s.BlockNumber, s.Timestamp = head.BlockNumber, head.Timestamp
	s.DailyVolume = s.DailyVolume.Add(payment)
	if unitPrice.LessThan(s.DailyMinPrice) {
		s.DailyMinPrice = unitPrice
	}
	if unitPrice.GreaterThan(s.DailyMaxPrice) {
		s.DailyMaxPrice = unitPrice
	}
	s.TradeVolume, s.MarketRevenue = c.TradeVolume, c.MarketRevenue
	s.CreatorRevenue, s.TotalRevenue = c.CreatorRevenue, c.TotalRevenue
	return t.Clauses(clause.OnConflict{UpdateAll: true}).Create(&s).Error
}

// updateMarketplaceSnapshot 按天分桶累加市场成交，并拷贝截至当日的累计值
func updateMarketplaceSnapshot(t *gorm.DB, m *model.Marketplace, head *model.Envelope, payment, unitPrice decimal.Decimal) error {
	s := model.MarketplaceSnapshot{ID: snapshotID(m.Address, head.Timestamp)}
	if err := t.Find(&s).Error; err != nil {
		return err
	}
	if s.Marketplace == "" {
		s.Marketplace = m.Address
		s.DailyMinPrice, s.DailyMaxPrice = maxPrice, decimal.Zero
	}
	s.BlockNumber, s.Timestamp = head.BlockNumber, head.Timestamp
	s.DailyVolume = s.DailyVolume.Add(payment)
	if unitPrice.LessThan(s.DailyMinPrice) {
		s.DailyMinPrice = unitPrice
	}
	if unitPrice.GreaterThan(s.DailyMaxPrice) {
		s.DailyMaxPrice = unitPrice
	}
	s.TradeVolume, s.MarketRevenue = m.TradeVolume, m.MarketRevenue
	s.CreatorRevenue, s.TotalRevenue = m.CreatorRevenue, m.TotalRevenue
	return t.Clauses(clause.OnConflict{UpdateAll: true}).Create(&s).Error
}
