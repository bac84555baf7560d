package service

import (
	"math/big"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketscan/common/model"
	"marketscan/common/types"
)

// RebuildCollectionStats 从成交记录和开放挂单重算合集统计，用于校验或修复
func RebuildCollectionStats(db *gorm.DB, collection types.Address) error {
	var sales []*model.Sale
	err := db.Model(&model.Sale{}).Select("sales.*").
		Joins("JOIN listings ON listings.id=sales.listing").
		Where("listings.collection=?", collection).Find(&sales).Error
	if err != nil {
		return err
	}
	stats := model.CollectionStats{Collection: collection}
	for _, sale := range sales {
		stats.Sales++
		stats.Volume = stats.Volume.Add(toAmount(sale.Payment))
		if sale.UnitPrice.GreaterThan(stats.HighestSale) {
			stats.HighestSale = sale.UnitPrice
		}
		if stats.FloorPrice.IsZero() || sale.UnitPrice.LessThan(stats.FloorPrice) {
			stats.FloorPrice = sale.UnitPrice
		}
	}
	if stats.Sales > 0 {
		stats.AvgPrice = stats.Volume.Div(decimal.NewFromInt(stats.Sales))
	}
	var open []*model.Listing
	err = db.Where("collection=? AND closed_at IS NULL", collection).Find(&open).Error
	if err != nil {
		return err
	}
	listed := new(big.Int)
	for _, l := range open {
		listed.Add(listed, bigFromStr(l.AvailableQty))
	}
	stats.Listed = listed.Int64()
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&stats).Error
}
